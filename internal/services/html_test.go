package services

import (
	"testing"

	"cryptofunds/internal/content"

	"github.com/stretchr/testify/assert"
)

// Кавычки в style после bluemonday приходят как &#39;/&#34;.
func TestContentPolicyThenSanitize(t *testing.T) {
	policy := newContentPolicy()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single quoted font family",
			in:   `<p style="font-family: 'Arial', sans-serif; color: red">x</p>`,
			want: `<p>x</p>`,
		},
		{
			name: "quot entity font family",
			in:   `<p style="font-family: &quot;Times New Roman&quot;; text-align: center">x</p>`,
			want: `<p style="text-align: center">x</p>`,
		},
		{
			name: "script removed, style normalized",
			in:   `<p style="color: red; text-align: left" onclick="x()">a<script>alert(1)</script></p>`,
			want: `<p style="text-align: left">a</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := content.Sanitize(policy.Sanitize(tt.in))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, content.Sanitize(got))
		})
	}
}
