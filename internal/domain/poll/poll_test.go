package poll

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryMeal, CategoryActivity, CategoryDestination, CategoryTime, CategoryGeneral} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("sports").Valid())
	assert.False(t, Category("").Valid())
}

func TestNewPollDefaults(t *testing.T) {
	p, err := NewPoll("Where to?", []string{"A", "B"}, "", "")
	require.NoError(t, err)

	assert.Equal(t, CategoryGeneral, p.Category)
	assert.Equal(t, DefaultCreatedBy, p.CreatedBy)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), p.ShareCode)
}

func TestPollValidate(t *testing.T) {
	valid := func() *Poll {
		p, err := NewPoll("Where to?", []string{"A", "B"}, CategoryMeal, "Sam")
		require.NoError(t, err)
		return p
	}

	assert.NoError(t, valid().Validate())

	p := valid()
	p.Question = ""
	assert.Error(t, p.Validate())

	p = valid()
	p.Question = strings.Repeat("q", QuestionMaxLength+1)
	assert.Error(t, p.Validate())

	p = valid()
	p.Question = strings.Repeat("q", QuestionMaxLength)
	assert.NoError(t, p.Validate())

	p = valid()
	p.Options = p.Options[:1]
	assert.Error(t, p.Validate())

	p = valid()
	p.Options = make([]string, MaxOptions+1)
	for i := range p.Options {
		p.Options[i] = "x"
	}
	assert.Error(t, p.Validate())

	p = valid()
	p.Options[1] = strings.Repeat("o", OptionMaxLength+1)
	assert.Error(t, p.Validate())

	p = valid()
	p.Options[0] = ""
	assert.Error(t, p.Validate())

	p = valid()
	p.Category = Category("sports")
	assert.Error(t, p.Validate())

	p = valid()
	p.CreatedBy = strings.Repeat("n", NameMaxLength+1)
	assert.Error(t, p.Validate())
}

func TestVoteValidate(t *testing.T) {
	p, err := NewPoll("Where to?", []string{"A", "B", "C"}, CategoryGeneral, "Sam")
	require.NoError(t, err)

	assert.NoError(t, NewVote(p.ID, 0, "Riley").Validate(p))
	assert.NoError(t, NewVote(p.ID, 2, "Riley").Validate(p))
	assert.Error(t, NewVote(p.ID, 3, "Riley").Validate(p))
	assert.Error(t, NewVote(p.ID, -1, "Riley").Validate(p))
	assert.Error(t, NewVote(uuid.Nil, 0, "Riley").Validate(p))
	assert.Error(t, NewVote(p.ID, 0, strings.Repeat("n", NameMaxLength+1)).Validate(p))
}

func TestNewVoteDefaultsName(t *testing.T) {
	v := NewVote(uuid.New(), 0, "")
	assert.Equal(t, DefaultCreatedBy, v.VoterName)
}

func TestTally(t *testing.T) {
	p, err := NewPoll("Where to?", []string{"A", "B", "C"}, CategoryGeneral, "Sam")
	require.NoError(t, err)

	results, total := p.Tally(nil)
	assert.Equal(t, 0, total)
	require.Len(t, results, 3)
	for i, opt := range []string{"A", "B", "C"} {
		assert.Equal(t, OptionResult{Option: opt}, results[i])
	}

	votes := []*Vote{
		NewVote(p.ID, 1, "Ana"),
		NewVote(p.ID, 1, "Ben"),
		NewVote(p.ID, 0, "Cam"),
		// Stale index from a reshaped poll is skipped.
		NewVote(p.ID, 5, "Dee"),
	}
	results, total = p.Tally(votes)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, results[0].Votes)
	assert.Equal(t, 2, results[1].Votes)
	assert.Equal(t, 0, results[2].Votes)
}

func TestGenerateShareCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateShareCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		assert.False(t, seen[code], "duplicate share code %s", code)
		seen[code] = true
	}
}
