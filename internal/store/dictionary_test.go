package store

import (
	"context"
	"testing"
)

func TestStore_UserTerms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if !s.AddUserTerm(ctx, UserTerm{Term: "API", Translation: "interfaz", SourceLang: "en", TargetLang: "es", Domain: "technical"}) {
		t.Fatal("AddUserTerm failed")
	}
	got, ok := s.GetUserTerm(ctx, "API", "en", "es")
	if !ok || got != "interfaz" {
		t.Errorf("expected interfaz, got %q (ok=%v)", got, ok)
	}

	// Insert-or-replace keeps one row per key.
	s.AddUserTerm(ctx, UserTerm{Term: "API", Translation: "API", SourceLang: "en", TargetLang: "es", Notes: "keep as is"})
	got, _ = s.GetUserTerm(ctx, "API", "en", "es")
	if got != "API" {
		t.Errorf("expected replaced translation, got %q", got)
	}

	s.AddUserTerm(ctx, UserTerm{Term: "server", Translation: "serveur", SourceLang: "en", TargetLang: "fr"})

	all := s.ListUserTerms(ctx, "", "")
	if len(all) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(all))
	}
	if all[0].Term != "API" || all[0].Notes != "keep as is" || all[0].Domain != "" {
		t.Errorf("unexpected first term: %+v", all[0])
	}
	if fr := s.ListUserTerms(ctx, "en", "fr"); len(fr) != 1 || fr[0].Translation != "serveur" {
		t.Errorf("unexpected filtered list: %+v", fr)
	}

	if _, ok := s.GetUserTerm(ctx, "API", "en", "fr"); ok {
		t.Error("expected miss for other language pair")
	}

	if !s.DeleteUserTerm(ctx, "API", "en", "es") {
		t.Error("expected delete to report a removed row")
	}
	if s.DeleteUserTerm(ctx, "API", "en", "es") {
		t.Error("expected second delete to report nothing removed")
	}
	if _, ok := s.GetUserTerm(ctx, "API", "en", "es"); ok {
		t.Error("term should be gone")
	}
}
