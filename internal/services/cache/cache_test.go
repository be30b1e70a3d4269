package cache

import (
	"testing"

	"answer-grader/internal/core/verdict"
	"answer-grader/internal/database/model"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("Astana", []string{"Astana", "Нур-Султан"}, "Столица Казахстана?", "llama-3.1-8b-instant")
	b := Key("Astana", []string{"Astana", "Нур-Султан"}, "Столица Казахстана?", "llama-3.1-8b-instant")
	if a != b {
		t.Fatalf("same inputs must hash equal: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected hex md5, got %q", a)
	}
}

func TestKeyVariantOrderInsensitive(t *testing.T) {
	a := Key("Astana", []string{"Astana", "Нур-Султан"}, "", "m")
	b := Key("Astana", []string{"Нур-Султан", "Astana"}, "", "m")
	if a != b {
		t.Error("variant order must not change the key")
	}
}

func TestKeyDiscriminates(t *testing.T) {
	base := Key("Astana", []string{"Astana"}, "ctx", "m1")
	if Key("astana", []string{"Astana"}, "ctx", "m1") == base {
		t.Error("answer must be part of the key")
	}
	if Key("Astana", []string{"Almaty"}, "ctx", "m1") == base {
		t.Error("variants must be part of the key")
	}
	if Key("Astana", []string{"Astana"}, "other", "m1") == base {
		t.Error("context must be part of the key")
	}
	if Key("Astana", []string{"Astana"}, "ctx", "m2") == base {
		t.Error("model must be part of the key")
	}
}

func TestVerdictFromRow(t *testing.T) {
	row := model.AIResponseCache{
		IsCorrect:   true,
		Confidence:  0.95,
		Explanation: "синоним",
		AIProvider:  "groq",
	}
	v := verdictFromRow(row)
	if !v.IsCorrect || v.Confidence != 0.95 || v.Explanation != "синоним" || v.AIProvider != "groq" {
		t.Fatalf("row fields lost in translation: %+v", v)
	}
	if v.Method != verdict.MethodAI || !v.FromCache {
		t.Errorf("cached verdicts must read as AI hits from cache: %+v", v)
	}
}
