package forms

import (
	"strings"
	"testing"
)

func validOther() OtherDetails {
	ref := Reference{
		Name:        "Dr. Rao",
		Address:     "Chennai",
		Designation: "Professor",
		Mobile:      "9876543210",
		Email:       "rao@example.com",
	}
	ref2 := ref
	ref2.Name = "Dr. Iyer"
	return OtherDetails{
		References:      []Reference{ref, ref2},
		JoiningTime:     "1 month",
		AttendInterview: "Yes",
		VacancySource:   "Website",
		ExpectedPay:     "60000",
		LastPay:         "50000",
	}
}

func TestOtherDetailsValid(t *testing.T) {
	t.Parallel()

	o := validOther()
	if err := o.Validate(); err != nil {
		t.Fatalf("expected valid other details, got %v", err)
	}
}

func TestOtherDetailsRequiresTwoReferences(t *testing.T) {
	t.Parallel()

	o := validOther()
	o.References = o.References[:1]
	err := o.Validate()
	if err == nil {
		t.Fatalf("expected single reference to fail")
	}
	if !strings.Contains(err.Error(), "two references") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOtherDetailsReferenceMobile(t *testing.T) {
	t.Parallel()

	o := validOther()
	o.References[1].Mobile = "123"
	if err := o.Validate(); err == nil {
		t.Fatalf("expected short reference mobile to fail")
	}
}

func TestOtherDetailsDocumentSlots(t *testing.T) {
	t.Parallel()

	o := validOther()
	o.Documents = map[string]string{"resume": "cand/resume_cv.pdf"}
	if err := o.Validate(); err != nil {
		t.Fatalf("expected known slot to pass, got %v", err)
	}

	o.Documents["passport"] = "cand/passport.pdf"
	if err := o.Validate(); err == nil {
		t.Fatalf("expected unknown slot to fail")
	}
}

func TestKnownDocumentSlot(t *testing.T) {
	t.Parallel()

	for _, slot := range DocumentSlots {
		if !KnownDocumentSlot(slot) {
			t.Fatalf("expected slot %s to be known", slot)
		}
	}
	if KnownDocumentSlot("passport") {
		t.Fatalf("expected passport to be unknown")
	}
}

func TestDeclarationRequiresAgreement(t *testing.T) {
	t.Parallel()

	d := Declaration{Place: "Chennai", Date: "2025-01-10"}
	if err := d.Validate(); err == nil {
		t.Fatalf("expected unchecked declaration to fail")
	}
	d.Agreed = true
	if err := d.Validate(); err != nil {
		t.Fatalf("expected agreed declaration to pass, got %v", err)
	}
}
