package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

type fakeCompleter struct {
	reply   string
	err     error
	gotUser string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.gotUser = user
	return f.reply, f.err
}

func TestModel_Update_QuitKeys(t *testing.T) {
	model := NewModel(&fakeCompleter{}, "system")

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m := updated.(Model)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestModel_Update_EnterSendsPrompt(t *testing.T) {
	completer := &fakeCompleter{reply: "the rename is reliable"}
	model := NewModel(completer, "system")
	model.input.SetValue("is the rename safe?")

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	require.Len(t, m.turns, 1)
	assert.Equal(t, "user", m.turns[0].role)

	// Run the returned command and feed its message back in.
	msg := cmd()
	reply, ok := msg.(replyMsg)
	require.True(t, ok)
	assert.Equal(t, "the rename is reliable", string(reply))
	assert.Equal(t, "is the rename safe?", completer.gotUser)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.waiting)
	require.Len(t, m.turns, 2)
	assert.Equal(t, "assistant", m.turns[1].role)
}

func TestModel_Update_EmptyPromptIgnored(t *testing.T) {
	model := NewModel(&fakeCompleter{}, "system")
	model.input.SetValue("   ")

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := updated.(Model)
	assert.Nil(t, cmd)
	assert.Empty(t, m.turns)
	assert.False(t, m.waiting)
}

func TestModel_Update_CompleterError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	model := NewModel(completer, "system")
	model.input.SetValue("hello")

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := updated.(Model)
	require.NotNil(t, cmd)

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.False(t, m.waiting)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "rate limited")
}

func TestDashboard_View(t *testing.T) {
	filtered := &transform.FilteredParsedExamples{
		Threshold: 0.7,
		Patterns: []transform.Pattern{
			{Type: transform.PatternFieldMapping, TargetPath: "name", Confidence: 1.0},
			{Type: transform.PatternTypeConversion, TargetPath: "salary", Confidence: 0.75},
		},
		Included: []transform.Pattern{
			{Type: transform.PatternFieldMapping, TargetPath: "name", Confidence: 1.0},
			{Type: transform.PatternTypeConversion, TargetPath: "salary", Confidence: 0.75},
		},
	}

	view := NewDashboard(filtered).View()
	assert.Contains(t, view, "0.70")
	assert.Contains(t, view, "Included:")
}

func TestDashboard_View_NoPatterns(t *testing.T) {
	view := NewDashboard(&transform.FilteredParsedExamples{Threshold: 0.7}).View()
	assert.Contains(t, view, "No patterns detected.")
}

func TestDashboard_Update_Quit(t *testing.T) {
	d := NewDashboard(&transform.FilteredParsedExamples{})

	updated, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, updated.(Dashboard).quitting)
	assert.NotNil(t, cmd)
}
