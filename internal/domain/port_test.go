package domain

import "testing"

func TestPortID(t *testing.T) {
	p := PortID{Client: 28, Port: 0}
	if p.String() != "28:0" {
		t.Errorf("String() = %q, want 28:0", p.String())
	}
	if p.IsNull() {
		t.Error("valid port reported null")
	}
	if !NullPortID.IsNull() {
		t.Error("NullPortID not null")
	}
	if (PortID{Client: NullID, Port: 3}).IsNull() {
		t.Error("IsNull must compare both fields, not just the client")
	}
}

func TestPortCaps_Fulfills(t *testing.T) {
	tests := []struct {
		name     string
		have     PortCaps
		required PortCaps
		want     bool
	}{
		{"exact", SenderPortCaps, SenderPortCaps, true},
		{"superset", SenderPortCaps | CapWrite, SenderPortCaps, true},
		{"partial", CapRead, SenderPortCaps, false},
		{"disjoint", ReceiverPortCaps, SenderPortCaps, false},
		{"nothing required", CapRead, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.have.Fulfills(tt.required); got != tt.want {
				t.Errorf("Fulfills(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
