// Package prompt 提供业务属性到生成提示词的编译
package prompt

// TransformTemplate 变体生成使用的固定命名变换模板
type TransformTemplate struct {
	Name         string
	Instructions string
	Strength     float64
}

// 固定变换模板集，按序轮换使用
var transformTemplates = []TransformTemplate{
	{
		Name:         "layout_inversion",
		Instructions: "mirror the layout horizontally and move the mark to the opposite side of the composition",
		Strength:     0.6,
	},
	{
		Name:         "color_inversion",
		Instructions: "invert the color scheme, swapping light and dark areas while keeping the same hues",
		Strength:     0.5,
	},
	{
		Name:         "seasonal_theme",
		Instructions: "reinterpret the logo with a subtle festive seasonal theme without changing its core shape",
		Strength:     0.7,
	},
}

// TransformTemplates 返回变换模板副本，调用方不可修改原表
func TransformTemplates() []TransformTemplate {
	out := make([]TransformTemplate, len(transformTemplates))
	copy(out, transformTemplates)
	return out
}

// 编辑变体的轮换措辞修饰词
var editPhrasings = []string{
	"with a lighter touch",
	"more pronounced",
	"keeping fine details intact",
	"with simplified shapes",
}

// EditPhrasings 返回编辑变体措辞副本
func EditPhrasings() []string {
	out := make([]string, len(editPhrasings))
	copy(out, editPhrasings)
	return out
}
