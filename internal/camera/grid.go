package camera

// NewSquareGrid builds a rows×cols camera of unit-area square pixels at the
// given pitch, indexed row-major with x varying fastest. The layout matches
// the synthetic test cameras used throughout the parameter tests and the
// synthetic shower source.
func NewSquareGrid(name string, rows, cols int, pitch float64) (*Geometry, error) {
	n := rows * cols
	pixX := make([]float64, n)
	pixY := make([]float64, n)
	pixArea := make([]float64, n)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			idx := j*cols + i
			pixX[idx] = float64(i) * pitch
			pixY[idx] = float64(j) * pitch
			pixArea[idx] = pitch * pitch
		}
	}
	return NewGeometry(name, pixX, pixY, pixArea, ShapeSquare)
}
