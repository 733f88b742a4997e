package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError 描述首个未通过的校验规则。
// 分区表单按字段声明顺序校验，每次提交只报告第一条违规，不聚合全部错误。
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

var panRe = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// PAN 格式: 5 位大写字母 + 4 位数字 + 1 位大写字母，小写不通过
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return panRe.MatchString(fl.Field().String())
	})
	return v
}

// firstError 将 validator 的错误列表压缩为首条 ValidationError。
// 字段命名空间去掉根结构体前缀，便于前端定位具体输入框。
func firstError(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.StructNamespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if msg, ok := messages[fe.StructField()]; ok {
		return &ValidationError{Field: field, Message: msg}
	}
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s is missing or invalid", field)}
}
