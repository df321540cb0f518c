// Package prompt builds the system instruction that seeds every
// conversation.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
)

//go:embed system.yaml
var defaultSpec []byte

// Spec is the prompt file. Components maps a vocabulary kind to a short
// description of its props; kinds without an entry are still listed.
type Spec struct {
	Version    string            `yaml:"version"`
	Persona    string            `yaml:"persona"`
	FollowUps  string            `yaml:"follow_ups"`
	Components map[string]string `yaml:"components"`
	Forbidden  []string          `yaml:"forbidden"`
}

// Default returns the embedded prompt.
func Default() (*Spec, error) {
	return Parse(defaultSpec)
}

// Load reads a prompt file, or the embedded one when path is empty.
func Load(path string) (*Spec, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("decode prompt: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Version == "" {
		spec.Version = protocol.Version
	}
	return &spec, nil
}

// Validate rejects prompts that describe components outside the vocabulary
// or forbid ones inside it.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Persona) == "" {
		return fmt.Errorf("prompt: persona is required")
	}
	var unknown []string
	for name := range s.Components {
		if _, ok := protocol.LookupKind(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("prompt: components outside the vocabulary: %s", strings.Join(unknown, ", "))
	}
	for _, name := range s.Forbidden {
		if _, ok := protocol.LookupKind(name); ok {
			return fmt.Errorf("prompt: %s is both allowed and forbidden", name)
		}
	}
	return nil
}

// System renders the system instruction. The allowlist is generated from
// the vocabulary in its declared order.
func (s *Spec) System() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(s.Persona))
	if f := strings.TrimSpace(s.FollowUps); f != "" {
		b.WriteString("\n\nFollow-Up Intelligence Requirement:\n")
		b.WriteString(f)
	}

	b.WriteString("\n\nOutput Format:\n")
	b.WriteString(`Reply with a single JSON object {"component": {"component": "<Name>", "props": {...}}}.`)
	b.WriteString("\nProtocol version: ")
	b.WriteString(s.Version)

	b.WriteString("\n\nSTRICT COMPONENT ALLOWLIST:\n")
	b.WriteString("You must ONLY use the following components. Do NOT invent new components.\n")
	for _, k := range protocol.Kinds() {
		b.WriteString("- ")
		b.WriteString(string(k))
		if hint := s.Components[string(k)]; hint != "" {
			b.WriteString(" (")
			b.WriteString(hint)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	if len(s.Forbidden) > 0 {
		quoted := make([]string, len(s.Forbidden))
		for i, f := range s.Forbidden {
			quoted[i] = "'" + f + "'"
		}
		b.WriteString("\nDo NOT use: ")
		b.WriteString(strings.Join(quoted, ", "))
		b.WriteString(", or any HTML tags.")
	}
	return b.String()
}
