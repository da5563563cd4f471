package service

import (
	"errors"
	"strings"
	"testing"

	"lostfound/internal/models"
)

type fakeMailSender struct {
	err      error
	sent     int
	lastTo   string
	lastSubj string
	lastBody string
}

func (f *fakeMailSender) Send(to, subject, htmlBody string) error {
	f.sent++
	f.lastTo = to
	f.lastSubj = subject
	f.lastBody = htmlBody
	return f.err
}

func confirmationItem() *models.Item {
	return &models.Item{
		ID:            1,
		Type:          models.TypeFound,
		ItemName:      "Blue Backpack",
		Location:      "Central Park",
		DateFoundLost: "2024-05-01",
		TimeFoundLost: "14:30",
		ContactInfo:   "a@b.com",
	}
}

func TestNotifySendsConfirmation(t *testing.T) {
	mail := &fakeMailSender{}
	svc := NewNotificationService(mail, testLogger())

	if err := svc.Notify(confirmationItem()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mail.sent != 1 {
		t.Fatalf("expected 1 mail, got %d", mail.sent)
	}
	if mail.lastTo != "a@b.com" {
		t.Fatalf("unexpected recipient: %q", mail.lastTo)
	}
	if mail.lastSubj != "Confirmation: You reported a FOUND item - Inocreal" {
		t.Fatalf("unexpected subject: %q", mail.lastSubj)
	}
	for _, want := range []string{"Blue Backpack", "Central Park", "2024-05-01", "14:30"} {
		if !strings.Contains(mail.lastBody, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestNotifySkipsNonEmailContacts(t *testing.T) {
	mail := &fakeMailSender{}
	svc := NewNotificationService(mail, testLogger())

	item := confirmationItem()
	item.ContactInfo = "call 555-0100"

	if err := svc.Notify(item); err != nil {
		t.Fatalf("expected nil for non-email contact, got: %v", err)
	}
	if mail.sent != 0 {
		t.Fatalf("expected no mail for non-email contact, got %d", mail.sent)
	}
}

func TestNotifyReturnsTransportError(t *testing.T) {
	mail := &fakeMailSender{err: errors.New("smtp down")}
	svc := NewNotificationService(mail, testLogger())

	if err := svc.Notify(confirmationItem()); err == nil {
		t.Fatal("expected transport error to propagate to the dispatcher")
	}
}
