package coreterm

import (
	"encoding/base64"
	"strings"
)

// SetUserVar sets an iTerm2-style user variable (OSC 1337 SetUserVar).
func (t *Terminal) SetUserVar(name, value string) {
	if t.middleware != nil && t.middleware.SetUserVar != nil {
		t.middleware.SetUserVar(name, value, t.setUserVarInternal)
		return
	}
	t.setUserVarInternal(name, value)
}

func (t *Terminal) setUserVarInternal(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.userVars == nil {
		t.userVars = make(map[string]string)
	}
	t.userVars[name] = value
}

// GetUserVar returns the value of a previously set user variable, or "" if
// it was never set.
func (t *Terminal) GetUserVar(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userVars[name]
}

// GetUserVars returns a copy of all currently set user variables.
func (t *Terminal) GetUserVars() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]string, len(t.userVars))
	for k, v := range t.userVars {
		out[k] = v
	}
	return out
}

// ClearUserVars removes all user variables.
func (t *Terminal) ClearUserVars() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userVars = nil
}

// parseOSC1337 handles the payload of an OSC 1337 sequence. Only
// SetUserVar=NAME=BASE64VALUE is recognized; other iTerm2 1337 subcommands
// (file transfer, cursor shape hints) are not part of this terminal's
// feature set and are silently ignored.
func (t *Terminal) parseOSC1337(data []byte) {
	const prefix = "SetUserVar="
	s := string(data)
	if !strings.HasPrefix(s, prefix) {
		return
	}
	rest := s[len(prefix):]
	name, encoded, ok := strings.Cut(rest, "=")
	if !ok {
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return
	}
	t.SetUserVar(name, string(decoded))
}
