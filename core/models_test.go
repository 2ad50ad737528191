package core

import (
	"encoding/json"
	"testing"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same fingerprint",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp1 := Fingerprint(tt.content)
			fp2 := Fingerprint(tt.content)

			if fp1 != fp2 {
				t.Errorf("Fingerprint() produced different digests for same content: %s vs %s", fp1, fp2)
			}
			if len(fp1) != fingerprintSize*2 {
				t.Errorf("Fingerprint() length = %d, want %d", len(fp1), fingerprintSize*2)
			}
		})
	}
}

func TestFingerprint_Different(t *testing.T) {
	if Fingerprint("content1") == Fingerprint("content2") {
		t.Errorf("Fingerprint() produced same digest for different content")
	}
}

func TestStringList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "array", input: `["business","top"]`, want: []string{"business", "top"}},
		{name: "single string", input: `"sports"`, want: []string{"sports"}},
		{name: "empty string", input: `""`, want: nil},
		{name: "null", input: `null`, want: nil},
		{name: "empty array", input: `[]`, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Unmarshal() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Unmarshal()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStringList_UnmarshalJSON_Invalid(t *testing.T) {
	var got StringList
	if err := json.Unmarshal([]byte(`{"a":1}`), &got); err == nil {
		t.Errorf("Unmarshal() expected error for object input")
	}
}

func TestCleanedArticle_PublishedAt(t *testing.T) {
	a := CleanedArticle{}
	if a.PublishedAt() != nil {
		t.Errorf("PublishedAt() = %v, want nil", a.PublishedAt())
	}

	ts := int64(1700000000)
	a.PubDatetime = &ts
	got := a.PublishedAt()
	if got == nil {
		t.Fatal("PublishedAt() = nil, want time")
	}
	if got.Unix() != ts {
		t.Errorf("PublishedAt().Unix() = %d, want %d", got.Unix(), ts)
	}
	if got.Location().String() != "UTC" {
		t.Errorf("PublishedAt() location = %s, want UTC", got.Location())
	}
}
