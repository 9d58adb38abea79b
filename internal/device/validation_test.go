package device

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := func() *Device {
		return &Device{
			Name:      "Temp1",
			IPAddress: "10.0.0.1",
			Kind:      KindSensor,
			OwnerID:   "usr-abc12345",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Device)
		wantErr bool
	}{
		{"valid sensor", func(d *Device) {}, false},
		{"valid server", func(d *Device) { d.Kind = KindServer }, false},
		{"valid ipv6", func(d *Device) { d.IPAddress = "fe80::1" }, false},
		{"empty name", func(d *Device) { d.Name = "" }, true},
		{"name too long", func(d *Device) { d.Name = strings.Repeat("x", maxNameLength+1) }, true},
		{"name at limit", func(d *Device) { d.Name = strings.Repeat("x", maxNameLength) }, false},
		{"empty ip", func(d *Device) { d.IPAddress = "" }, true},
		{"malformed ip", func(d *Device) { d.IPAddress = "not-an-ip" }, true},
		{"ip with port", func(d *Device) { d.IPAddress = "10.0.0.1:8080" }, true},
		{"unknown kind", func(d *Device) { d.Kind = Kind("router") }, true},
		{"empty kind", func(d *Device) { d.Kind = "" }, true},
		{"missing owner", func(d *Device) { d.OwnerID = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)

			err := Validate(d)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestIsValidKind(t *testing.T) {
	if !IsValidKind(KindSensor) || !IsValidKind(KindServer) {
		t.Error("expected sensor and server to be valid kinds")
	}
	if IsValidKind(Kind("Sensor")) {
		t.Error("kind matching should be case sensitive")
	}
	if IsValidKind(Kind("")) {
		t.Error("empty kind should be invalid")
	}
}
