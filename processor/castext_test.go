package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessCASText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "else splits block",
			input: `[[if test="a"]]yes[[else]]no[[/if]]`,
			want:  `<if test="a">yes</if><if>no</if>`,
		},
		{
			name:  "elif splits block",
			input: `[[if test="a"]]one[[ elif test="b" ]]two[[/if]]`,
			want:  `<if test="a">one</if><if>two</if>`,
		},
		{
			name:  "input and validation placeholders",
			input: `Answer: [[input:ans1]] [[validation:ans1]]`,
			want:  `Answer: <br/> <br/>`,
		},
		{
			name:  "feedback and facts placeholders",
			input: `[[feedback:prt1]][[facts:x]]`,
			want:  `<br/><br/>`,
		},
		{
			name:  "display maths removed",
			input: `Solve \[x^2 = 4\] now`,
			want:  `Solve <br/> now`,
		},
		{
			name:  "inline CAS wrapped",
			input: `Let {@x@} be {#y#}`,
			want:  `Let <x>{@x@}</x> be <x>{#y#}</x>`,
		},
		{
			name:  "inline maths wrapped",
			input: `Let \(x\) be real`,
			want:  `Let <x>\(x\)</x> be real`,
		},
		{
			name:  "nested maths collapsed",
			input: `\(outer \(inner\) outer\)`,
			want:  `<x>\(outer \(inner\) outer\)</x>`,
		},
		{
			name:  "CAS inside CAS collapsed",
			input: `{@ {#x#} @}`,
			want:  `<x>{@ {#x#} @}</x>`,
		},
		{
			name:  "block with spaces",
			input: `[[ comment ]]note[[/ comment ]]`,
			want:  `<comment >note</ comment >`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreprocessCASText(tt.input))
		})
	}
}

func TestCollapseNoTranslate(t *testing.T) {
	assert.Equal(t, `<x>a b c</x>`, CollapseNoTranslate(`<x>a <x>b</x> c</x>`))
	assert.Equal(t, `<x>a</x> <x>b</x>`, CollapseNoTranslate(`<x>a</x> <x>b</x>`))
	assert.Equal(t, `ab<x>c</x>`, CollapseNoTranslate(`a</x>b<x>c</x>`))
	assert.Equal(t, `plain`, CollapseNoTranslate(`plain`))
}

func TestUnmaskCAS(t *testing.T) {
	assert.Equal(t, `Let \(x\) be real`, UnmaskCAS(`Let <x>\(x\)</x> be real`))
}
