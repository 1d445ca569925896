package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/shandysiswandi/prescripto/internal/directory/entity"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Cardiología", want: "Cardiología"},
		{name: "trimmed", in: "  Pediatría \n", want: "Pediatría"},
		{name: "tags stripped", in: "<b>Piel</b> y <i>uñas</i>", want: "Piel y uñas"},
		{name: "script dropped with content", in: "Ojos<script>alert(1)</script>", want: "Ojos"},
		{name: "entities kept readable", in: "Nariz & garganta", want: "Nariz & garganta"},
		{name: "markup only", in: `<img src="x" onerror="alert(1)">`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanText(tt.in); got != tt.want {
				t.Fatalf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUsecase_CreateSpecialty_StripsMarkup(t *testing.T) {
	// Arrange
	var stored entity.Specialty
	uc := newUsecase(t, &fakeRepo{
		createSpecialtyFn: func(_ context.Context, sp entity.Specialty) (int64, error) {
			stored = sp
			return 3, nil
		},
	})

	// Act
	_, err := uc.CreateSpecialty(context.Background(), SpecialtyInput{
		Name:        "<h1>Dermatología</h1>",
		Description: "Piel <script>steal()</script>y anexos",
		ImageURL:    "https://cdn.example.com/d.png",
	})
	_, errEmpty := uc.CreateSpecialty(context.Background(), SpecialtyInput{
		Name:        "<br><br>",
		Description: "x",
		ImageURL:    "https://cdn.example.com/d.png",
	})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Name != "Dermatología" || stored.Description != "Piel y anexos" {
		t.Fatalf("stored = %+v", stored)
	}
	if statusOf(errEmpty) != http.StatusBadRequest {
		t.Fatalf("markup-only name should fail validation, got %v", errEmpty)
	}
}
