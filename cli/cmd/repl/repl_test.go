package repl

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/findof1/maw/log"
)

func TestRun_NoSession(t *testing.T) {
	if err := Run(t.Context(), nil, "", log.Logger{}); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestModel_Evaluate(t *testing.T) {
	m := testModel(t)

	m, cmd := m.evaluate(`var total = add(2, 3) print("sum", total)`, nil)
	if cmd == nil {
		t.Fatal("expected output command")
	}

	if m.out.Len() != 0 {
		t.Errorf("expected captured output flushed, got %q", m.out.String())
	}

	v, err := m.env.Lookup("total")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := v.String(); got != "5" {
		t.Errorf("expected total 5, got %s", got)
	}

	if m.quitting {
		t.Error("expected model to keep running")
	}
}

func TestModel_EvaluateError(t *testing.T) {
	m := testModel(t)

	m, _ = m.evaluate(`const greeting = 1`, nil)
	if m.quitting || m.exit != nil {
		t.Error("expected an error to keep the session running")
	}

	v, err := m.env.Lookup("greeting")
	if err != nil || v.String() != "hello" {
		t.Errorf("expected greeting unchanged, got %v (%v)", v, err)
	}
}

func TestModel_EvaluateExit(t *testing.T) {
	m := testModel(t)

	m, _ = m.evaluate(`exit(3)`, nil)

	if !m.quitting {
		t.Error("expected model to quit")
	}

	if m.exit == nil || m.exit.Code != 3 {
		t.Errorf("expected exit code 3, got %v", m.exit)
	}
}

func TestModel_Commands(t *testing.T) {
	m := testModel(t)

	if got := m.listBindings(); !strings.Contains(got, "greeting") ||
		!strings.Contains(got, "add(x, y)") || strings.Contains(got, "print") {
		t.Errorf("unexpected bindings:\n%s", got)
	}

	m, _ = m.evaluate(`var extra = 1`, nil)
	m, _ = m.executeCommand("reset")

	if _, err := m.env.Lookup("extra"); err == nil {
		t.Error("expected reset to discard bindings")
	}

	if _, err := m.env.Lookup("greeting"); err != nil {
		t.Errorf("expected reset to rerun the session, got %v", err)
	}

	m, _ = m.executeCommand("quit")
	if !m.quitting {
		t.Error("expected quit to stop the model")
	}
}

func TestModel_ExecuteInput(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("  var n = 2  ")

	m, _ = m.executeInput()

	if m.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.input.Value())
	}

	if m.history.Len() != 1 || m.historyIdx != 1 {
		t.Errorf("expected one history entry, got %d (index %d)",
			m.history.Len(), m.historyIdx)
	}

	if _, err := m.env.Lookup("n"); err != nil {
		t.Errorf("expected n bound, got %v", err)
	}
}

func TestModel_Cycle(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("nested.")
	m.input.SetCursor(len("nested."))
	refreshMatches(&m, false)

	m = m.cycle(1)
	if got := m.input.Value(); got != "nested.depth" {
		t.Errorf("expected %q, got %q", "nested.depth", got)
	}

	m = m.cycle(1)
	if got := m.input.Value(); got != "nested.multiply" {
		t.Errorf("expected %q, got %q", "nested.multiply", got)
	}

	m = m.cycle(1)
	if got := m.input.Value(); got != "nested.depth" {
		t.Errorf("expected wrap to %q, got %q", "nested.depth", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := next.(model).input.Value(); got != "nested." {
		t.Errorf("expected escape to restore %q, got %q", "nested.", got)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{
		{"var a = 1", modeEval},
		{"list", modeCtrl},
		{"print(a)", modeEval},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	m.historyIdx = m.history.Len()

	m = m.historyStep(-1)
	if m.input.Value() != "print(a)" || m.mode != modeEval {
		t.Errorf("expected newest eval entry, got %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Errorf("expected command entry, got %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.historyInMode(-1)
	if m.input.Value() != "list" {
		t.Errorf("expected no earlier command entry, got %q", m.input.Value())
	}

	m = m.switchToMode(modeEval)
	m = m.historyInMode(-1)

	if m.input.Value() != "var a = 1" {
		t.Errorf("expected oldest eval entry, got %q", m.input.Value())
	}

	m = m.historyStep(1)
	m = m.historyStep(1)
	m = m.historyStep(1)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("expected cleared input past newest entry, got %q", m.input.Value())
	}
}

func TestModel_View(t *testing.T) {
	m := testModel(t)

	if got := m.View(); !strings.Contains(got, "Type a statement") {
		t.Errorf("expected eval hint, got %q", got)
	}

	m.input.SetValue("add(1, ")
	m.input.SetCursor(len("add(1, "))
	refreshMatches(&m, false)

	if got := m.View(); !strings.Contains(got, "add(x, y)") {
		t.Errorf("expected signature hint, got %q", got)
	}

	m.quitting = true
	if got := m.View(); got != "" {
		t.Errorf("expected empty view when quitting, got %q", got)
	}
}
