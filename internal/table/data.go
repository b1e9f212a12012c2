package table

// Data is the table representation a storage strategy keeps. Strategies may
// hold rows in any layout as long as they can materialise a Frame.
type Data interface {
	Len() int
	Names() []string
	Frame() (*Frame, error)
}

// Frame returns f itself.
func (f *Frame) Frame() (*Frame, error) { return f, nil }
