package dao

// Parameter narrows List results
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter
func NewParameter(name string, value interface{}) *Parameter {
	return &Parameter{Name: name, Value: value}
}
