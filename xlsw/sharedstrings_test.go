package xlsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedStringsIntern(t *testing.T) {
	ss := newSharedStrings()
	assert.Equal(t, 0, ss.Intern("alpha"))
	assert.Equal(t, 1, ss.Intern("beta"))
	assert.Equal(t, 0, ss.Intern("alpha")) // repeated value keeps its index
	assert.Equal(t, 2, ss.Intern(""))      // empty string interns like any other
	assert.Equal(t, 3, ss.Len())
}
