package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "color and font declarations dropped",
			in:   `<p style="color: red; text-align: center; font-family: Arial">x</p>`,
			want: `<p style="text-align: center">x</p>`,
		},
		{
			name: "style removed when nothing left",
			in:   `<p class="lead" style="color:#333;background-color:#fff">x</p>`,
			want: `<p class="lead">x</p>`,
		},
		{
			name: "untouched style keeps original formatting",
			in:   `<p style="text-align:center;">x</p>`,
			want: `<p style="text-align:center;">x</p>`,
		},
		{
			name: "font tags removed, content kept",
			in:   `<p><font color="red" face="Arial">hot</font> deal</p>`,
			want: `<p>hot deal</p>`,
		},
		{
			name: "table structure loses style and class",
			in:   `<table class="grid" style="width:100%"><tr style="height:20px"><th class="h">A</th><td style="color:red" colspan="2">1</td></tr></table>`,
			want: `<table><tr><th>A</th><td colspan="2">1</td></tr></table>`,
		},
		{
			name: "white-space span unwrapped",
			in:   `<p><span style="white-space: pre-wrap;">keep me</span></p>`,
			want: `<p>keep me</p>`,
		},
		{
			name: "nested spans only white-space one unwrapped",
			in:   `<span class="a"><span style="white-space:pre">x<span>y</span></span></span>`,
			want: `<span class="a">x<span>y</span></span>`,
		},
		{
			name: "other spans kept",
			in:   `<span style="font-weight: bold">b</span>`,
			want: `<span style="font-weight: bold">b</span>`,
		},
		{
			name: "placeholders untouched",
			in:   `<p style="color:red">{{overview-1}}</p>`,
			want: `<p>{{overview-1}}</p>`,
		},
		{
			name: "unquoted style value",
			in:   `<div style=color:red>x</div>`,
			want: `<div>x</div>`,
		},
		{
			name: "quoted font family encoded as entities",
			in:   `<p style="font-family: &#39;Arial&#39;, sans-serif; color: red">x</p>`,
			want: `<p>x</p>`,
		},
		{
			name: "quot entities keep neighbour declaration intact",
			in:   `<p style="font-family: &quot;Times New Roman&quot;; text-align: center">x</p>`,
			want: `<p style="text-align: center">x</p>`,
		},
		{
			name: "kept value with quotes is re-escaped",
			in:   `<p style="color: red; quotes: &#34;a&#34; &#34;b&#34;">x</p>`,
			want: `<p style="quotes: &#34;a&#34; &#34;b&#34;">x</p>`,
		},
		{
			name: "important flag kept",
			in:   `<p style="color:red;text-align:center !important">x</p>`,
			want: `<p style="text-align: center !important">x</p>`,
		},
		{
			name: "font tag hiding a white-space span",
			in:   `<<font>span style="white-space:pre">x</span>`,
			want: `x`,
		},
		{
			name: "malformed markup passes through",
			in:   `<p style="color:red>broken <td`,
			want: `<p style="color:red>broken <td`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		`<p style="color: red; text-align: center">x</p>`,
		`<table class="t"><tr><td style="a:b">1</td></tr></table>`,
		`<span style="white-space:pre"><font size="3">x</font></span>`,
		`<div style=color:red;margin:0>x</div>`,
		`plain text`,
		`<<font>span style="white-space:pre">x</span>`,
		`<p style="font-family: &#39;Arial&#39;, sans-serif; text-align: center">x</p>`,
		`<p style='color: red; content: "x"'>x</p>`,
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), in)
	}
}
