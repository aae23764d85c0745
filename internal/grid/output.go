package grid

// Output is a full-size result array stored row-major.
type Output[T any] struct {
	Height, Width int
	Data          []T
}

// NewOutput allocates a zeroed height x width output.
func NewOutput[T any](height, width int) *Output[T] {
	return &Output[T]{
		Height: height,
		Width:  width,
		Data:   make([]T, height*width),
	}
}

// At returns the value at (row, col).
func (o *Output[T]) At(row, col int) T {
	return o.Data[row*o.Width+col]
}

// Set stores v at (row, col).
func (o *Output[T]) Set(row, col int, v T) {
	o.Data[row*o.Width+col] = v
}

// Row returns row r as a slice sharing the output's storage.
func (o *Output[T]) Row(r int) []T {
	return o.Data[r*o.Width : (r+1)*o.Width]
}
