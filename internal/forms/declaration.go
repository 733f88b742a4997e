package forms

// Declaration 最终声明分区，勾选后才允许提交申请。
type Declaration struct {
	Agreed bool   `json:"agreed"`
	Place  string `json:"place"`
	Date   string `json:"date"`
}

// Validate 要求声明被勾选。
func (d *Declaration) Validate() error {
	if !d.Agreed {
		return &ValidationError{Field: "Agreed", Message: "the declaration must be accepted before submission"}
	}
	return nil
}
