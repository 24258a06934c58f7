package rosco

import (
	"errors"
	"testing"
)

func TestFieldsFor(t *testing.T) {
	tests := []struct {
		name    string
		code    byte
		version SchemaVersion
		want    int
		wantErr bool
	}{
		{"7d version a", CmdDataFrame7D, VersionA, 32, false},
		{"80 version a", CmdDataFrame80, VersionA, 28, false},
		{"80 version b", CmdDataFrame80, VersionB, 28, false},
		{"unknown code", 0xD0, VersionA, 0, true},
		{"unknown version", CmdDataFrame7D, UnknownVersion, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FieldsFor(tt.code, tt.version)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FieldsFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrUnknownCommand) {
					t.Errorf("FieldsFor() error = %v, want ErrUnknownCommand", err)
				}
				return
			}
			if len(got) != tt.want {
				t.Errorf("FieldsFor() = %d fields, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFieldsForReturnsCopy(t *testing.T) {
	a, _ := FieldsFor(CmdDataFrame7D, VersionA)
	a = append(a, FieldTimestamp)
	a[0] = "changed"
	b, _ := FieldsFor(CmdDataFrame7D, VersionA)
	if len(b) != 32 || b[0] != "dataframe_size_7d" {
		t.Fatalf("schema table was mutated: %v", b[:1])
	}
}

func TestVersionsDifferOnlyInFaultLayout(t *testing.T) {
	a, _ := FieldsFor(CmdDataFrame80, VersionA)
	b, _ := FieldsFor(CmdDataFrame80, VersionB)
	diff := map[int][2]string{}
	for i := range a {
		if a[i] != b[i] {
			diff[i] = [2]string{a[i], b[i]}
		}
	}
	want := map[int][2]string{
		0x0D: {FieldSensorFaultByte, "fault_codes_high_byte"},
		0x0E: {FieldCircuitFaultByte, "fault_codes_low_byte"},
		0x11: {"80x11", "idle_hot"},
	}
	if len(diff) != len(want) {
		t.Fatalf("got %d differing slots, want %d: %v", len(diff), len(want), diff)
	}
	for k, v := range want {
		if diff[k] != v {
			t.Errorf("slot 0x%02X = %v, want %v", k, diff[k], v)
		}
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name    string
		want    byte
		wantErr bool
	}{
		{"request_data_frame_a", 0x7D, false},
		{"request_data_frame_b", 0x80, false},
		{"heartbeat", 0xF4, false},
		{"Clear_Fault_Codes", 0xCC, false},
		{"warp_drive", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CodeFor(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CodeFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CodeFor() = 0x%02X, want 0x%02X", got, tt.want)
			}
		})
	}
}

func TestHandshakeSequence(t *testing.T) {
	seq := HandshakeSequence(VersionB)
	if len(seq) != 3 {
		t.Fatalf("got %d steps", len(seq))
	}
	if seq[0].Tx[0] != 0xCA || seq[1].Tx[0] != 0x75 || seq[2].Tx[0] != 0xD0 {
		t.Errorf("unexpected tx bytes: %v", seq)
	}
	want := []byte{0x99, 0x00, 0x03, 0x03}
	if string(seq[2].Response) != string(want) {
		t.Errorf("D0 response = % X, want % X", seq[2].Response, want)
	}
}

func TestVersionFromCode(t *testing.T) {
	e, ok := VersionFromCode(" 99 00 02  03 ")
	if !ok || e.ID != "MNE101070" || e.Version != VersionA {
		t.Errorf("VersionFromCode() = %+v, %v", e, ok)
	}
	if _, ok := VersionFromCode("01 02 03 04"); ok {
		t.Error("expected unknown code")
	}
}

func TestDetectVersion(t *testing.T) {
	a, _ := FieldsFor(CmdDataFrame80, VersionA)
	b, _ := FieldsFor(CmdDataFrame80, VersionB)
	if v := DetectVersion(a); v != VersionA {
		t.Errorf("DetectVersion(a) = %v", v)
	}
	if v := DetectVersion(b); v != VersionB {
		t.Errorf("DetectVersion(b) = %v", v)
	}
	if v := DetectVersion(append(a, FieldFaultCodes)); v != UnknownVersion {
		t.Errorf("DetectVersion(mixed) = %v", v)
	}
}

func TestParseCommandCode(t *testing.T) {
	for _, s := range []string{"7d", "7D", "80"} {
		if _, ok := ParseCommandCode(s); !ok {
			t.Errorf("ParseCommandCode(%q) failed", s)
		}
	}
	for _, s := range []string{"7", "zz", "7d0"} {
		if _, ok := ParseCommandCode(s); ok {
			t.Errorf("ParseCommandCode(%q) accepted", s)
		}
	}
}
