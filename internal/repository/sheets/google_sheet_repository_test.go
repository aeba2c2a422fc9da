package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTabOf(t *testing.T) {
	assert.Equal(t, "CompleteData", tabOf("CompleteData!A1"))
	assert.Equal(t, "'Hatch Data!'", tabOf("'Hatch Data!'!B2:F"))
	assert.Equal(t, "Sheet1", tabOf("Sheet1"))
}

func TestReplaceRangeRequiresRange(t *testing.T) {
	repo := &GoogleSheetRepository{}
	assert.Error(t, repo.ReplaceRange(context.Background(), "", nil))
}
