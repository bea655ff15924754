package ollama

import "testing"

func TestNew(t *testing.T) {
	t.Run("defaults applied when empty", func(t *testing.T) {
		p, err := New(Config{})
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		if p.baseURL != "http://localhost:11434" {
			t.Errorf("baseURL = %q, want default", p.baseURL)
		}
		if p.model != "nomic-embed-text" {
			t.Errorf("model = %q, want default", p.model)
		}
	})

	t.Run("custom base URL and model", func(t *testing.T) {
		p, err := New(Config{BaseURL: "http://custom:1234", Model: "mxbai-embed-large"})
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		if p.baseURL != "http://custom:1234" {
			t.Errorf("baseURL = %q", p.baseURL)
		}
		if p.model != "mxbai-embed-large" {
			t.Errorf("model = %q", p.model)
		}
	})
}

func TestProvider_Name(t *testing.T) {
	p, _ := New(Config{})
	if name := p.Name(); name != "ollama" {
		t.Errorf("Name() = %q, want %q", name, "ollama")
	}
}

func TestProvider_Dimension(t *testing.T) {
	tests := []struct {
		model    string
		expected int
	}{
		{"nomic-embed-text", 768},
		{"mxbai-embed-large", 1024},
		{"all-minilm", 384},
		{"unknown-model", 768},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, err := New(Config{Model: tt.model})
			if err != nil {
				t.Fatalf("New error: %v", err)
			}
			if dim := p.Dimension(); dim != tt.expected {
				t.Errorf("Dimension() = %d, want %d", dim, tt.expected)
			}
		})
	}
}

func TestProvider_EmbedEmptyInput(t *testing.T) {
	p, _ := New(Config{})
	results, err := p.Embed(nil, nil)
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if results != nil {
		t.Errorf("Embed(nil) = %+v, want nil", results)
	}
}

// Note: testing Embed against a live Ollama server would require a running
// local daemon, which is out of scope for unit tests. The tests above cover
// the constructor, getters, and the empty-input fast path.
