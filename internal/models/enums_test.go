package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"sender", RoleSender, false},
		{" Courier ", RoleCourier, false},
		{"driver", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoleOpposite(t *testing.T) {
	if RoleSender.Opposite() != RoleCourier {
		t.Error("sender opposite should be courier")
	}
	if RoleCourier.Opposite() != RoleSender {
		t.Error("courier opposite should be sender")
	}
}

func TestBaggageRoundTrip(t *testing.T) {
	kinds := []BaggageKind{BaggageDocument, BaggageLiquid}
	joined := JoinBaggage(kinds)
	if joined != "document,liquid" {
		t.Fatalf("JoinBaggage = %q", joined)
	}
	back := SplitBaggage(joined)
	if len(back) != 2 || back[0] != BaggageDocument || back[1] != BaggageLiquid {
		t.Fatalf("SplitBaggage = %v", back)
	}
}

func TestSplitBaggageSkipsUnknown(t *testing.T) {
	got := SplitBaggage("usual,rocket,other")
	if len(got) != 2 || got[0] != BaggageUsual || got[1] != BaggageOther {
		t.Fatalf("SplitBaggage = %v", got)
	}
}

func TestBaggageLabels(t *testing.T) {
	if got := BaggageLabels("usual,liquid"); got != "Обычный, Жидкость" {
		t.Fatalf("BaggageLabels = %q", got)
	}
}

func TestRequestRole(t *testing.T) {
	var r Request
	r.SenderID.Valid = true
	if r.Role() != RoleSender {
		t.Error("request with sender_id should report sender role")
	}
	var c Request
	c.CourierID.Valid = true
	if c.Role() != RoleCourier {
		t.Error("request with courier_id should report courier role")
	}
}
