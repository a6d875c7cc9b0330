package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-marketplace-api/internal/domain"
)

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, domain.SplitSkills("Go, SQL,,go"))
	assert.Nil(t, domain.SplitSkills(" "))
}

func TestNormalizeSkills(t *testing.T) {
	assert.Equal(t, []string{"React", "go"}, domain.NormalizeSkills([]string{" React", "go ", "", "react", "Go"}))
	assert.Equal(t, []string{}, domain.NormalizeSkills(nil))
}
