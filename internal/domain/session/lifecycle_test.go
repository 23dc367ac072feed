package session

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"uninitialized", StateUninitialized, true},
		{"initialized", StateInitialized, true},
		{"auto matched", StateAutoMatched, true},
		{"user edited", StateUserEdited, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLifecycle_InitialState(t *testing.T) {
	m := NewLifecycle()
	if got := m.State(); got != StateUninitialized {
		t.Errorf("State() = %v, want %v", got, StateUninitialized)
	}
}

func TestLifecycle_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		triggers  []Trigger
		wantState State
		wantErr   bool
	}{
		{"initialize", []Trigger{TriggerInitialize}, StateInitialized, false},
		{"initialize twice", []Trigger{TriggerInitialize, TriggerInitialize}, StateInitialized, false},
		{"auto match", []Trigger{TriggerInitialize, TriggerAutoMatch}, StateAutoMatched, false},
		{"auto match twice", []Trigger{TriggerInitialize, TriggerAutoMatch, TriggerAutoMatch}, StateAutoMatched, false},
		{"user edit from initialized", []Trigger{TriggerInitialize, TriggerUserEdit}, StateUserEdited, false},
		{"user edit after auto match", []Trigger{TriggerInitialize, TriggerAutoMatch, TriggerUserEdit}, StateUserEdited, false},
		{"repeated user edits", []Trigger{TriggerInitialize, TriggerUserEdit, TriggerUserEdit}, StateUserEdited, false},
		{"reinitialize after user edit", []Trigger{TriggerInitialize, TriggerUserEdit, TriggerInitialize}, StateUserEdited, false},
		{"auto match before initialize", []Trigger{TriggerAutoMatch}, StateUninitialized, true},
		{"user edit before initialize", []Trigger{TriggerUserEdit}, StateUninitialized, true},
		{"auto match after user edit", []Trigger{TriggerInitialize, TriggerUserEdit, TriggerAutoMatch}, StateUserEdited, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewLifecycle()
			var lastErr error
			for _, trigger := range tt.triggers {
				lastErr = m.Fire(context.Background(), trigger)
			}

			if tt.wantErr {
				if lastErr == nil {
					t.Fatal("expected an error from the last trigger, got nil")
				}
				if !errors.Is(lastErr, ErrInvalidTransition) {
					t.Errorf("error = %v, want ErrInvalidTransition", lastErr)
				}
			} else if lastErr != nil {
				t.Fatalf("unexpected error: %v", lastErr)
			}

			if got := m.State(); got != tt.wantState {
				t.Errorf("State() = %v, want %v", got, tt.wantState)
			}
		})
	}
}

func TestLifecycle_CanFire(t *testing.T) {
	m := NewLifecycle()

	if !m.CanFire(TriggerInitialize) {
		t.Error("CanFire(Initialize) = false, want true in uninitialized state")
	}
	if m.CanFire(TriggerAutoMatch) {
		t.Error("CanFire(AutoMatch) = true, want false in uninitialized state")
	}

	_ = m.Fire(context.Background(), TriggerInitialize)
	_ = m.Fire(context.Background(), TriggerUserEdit)

	if m.CanFire(TriggerAutoMatch) {
		t.Error("CanFire(AutoMatch) = true, want false after a user edit")
	}
	if !m.CanFire(TriggerUserEdit) {
		t.Error("CanFire(UserEdit) = false, want true after a user edit")
	}
}

func TestLifecycle_IndependentInstances(t *testing.T) {
	a := NewLifecycle()
	b := NewLifecycle()

	if err := a.Fire(context.Background(), TriggerInitialize); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.State(); got != StateUninitialized {
		t.Errorf("second machine state = %v, want %v", got, StateUninitialized)
	}
}
