package redact

import "testing"

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		fields    []string
		message   string
		separator string
		want      string
	}{
		{
			name:      "single field",
			fields:    []string{"password"},
			message:   "password=secret123;",
			separator: ";",
			want:      "password=***;",
		},
		{
			name:      "only listed field is redacted",
			fields:    []string{"email"},
			message:   "name=Bob;email=bob@x.com;phone=123;",
			separator: ";",
			want:      "name=Bob;email=***;phone=123;",
		},
		{
			name:      "adjacent fields are not conflated",
			fields:    []string{"name", "email"},
			message:   "name=Bob;email=bob@x.com;phone=123;",
			separator: ";",
			want:      "name=***;email=***;phone=123;",
		},
		{
			name:      "every occurrence is redacted",
			fields:    []string{"ssn"},
			message:   "ssn=111;ip=1.2.3.4;ssn=222;",
			separator: ";",
			want:      "ssn=***;ip=1.2.3.4;ssn=***;",
		},
		{
			name:      "absent field is a no-op",
			fields:    []string{"phone"},
			message:   "name=Bob;email=bob@x.com;",
			separator: ";",
			want:      "name=Bob;email=bob@x.com;",
		},
		{
			name:      "empty field list",
			fields:    nil,
			message:   "password=secret;",
			separator: ";",
			want:      "password=secret;",
		},
		{
			name:      "value without trailing separator is kept",
			fields:    []string{"password"},
			message:   "password=secret",
			separator: ";",
			want:      "password=secret",
		},
		{
			name:      "empty value",
			fields:    []string{"phone"},
			message:   "phone=;ssn=1;",
			separator: ";",
			want:      "phone=***;ssn=1;",
		},
		{
			name:      "value containing the separator is cut at the first separator",
			fields:    []string{"password"},
			message:   "password=ab;cd;ip=1;",
			separator: ";",
			want:      "password=***;cd;ip=1;",
		},
		{
			name:      "value spanning a newline is redacted",
			fields:    []string{"email"},
			message:   "email=a\nb; email=c;",
			separator: ";",
			want:      "email=***; email=***;",
		},
		{
			name:      "field name matches inside a longer key",
			fields:    []string{"name"},
			message:   "username=bob;",
			separator: ";",
			want:      "username=***;",
		},
		{
			name:      "spaces after separator are preserved",
			fields:    []string{"name", "email", "phone", "ssn", "password"},
			message:   "name=Bob; email=bob@x.com; phone=555; ssn=123-45; password=pw; ip=10.0.0.1;",
			separator: ";",
			want:      "name=***; email=***; phone=***; ssn=***; password=***; ip=10.0.0.1;",
		},
		{
			name:      "multi character separator",
			fields:    []string{"password"},
			message:   "password=x||ip=1||",
			separator: "||",
			want:      "password=***||ip=1||",
		},
		{
			name:      "empty separator leaves message unchanged",
			fields:    []string{"password"},
			message:   "password=x;",
			separator: "",
			want:      "password=x;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.fields, "***", tt.message, tt.separator)
			if got != tt.want {
				t.Errorf("Filter(%v, %q) = %q, want %q", tt.fields, tt.message, got, tt.want)
			}
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	fields := []string{"name", "email", "phone", "ssn", "password"}
	messages := []string{
		"",
		"no pairs here",
		"name=Bob;email=bob@x.com;phone=123;",
		"password=a;b;c; name=x",
		"email=a\nb; email=c;",
		"ssn=;ssn=;ssn=;",
		"[USERDATA] user_data INFO 2024-01-01 10:00:00,000: name=Z; last_login=2019-11-14T06:16:24;",
	}

	for _, m := range messages {
		once := Filter(fields, "***", m, ";")
		twice := Filter(fields, "***", once, ";")
		if once != twice {
			t.Errorf("Filter not idempotent for %q: once=%q twice=%q", m, once, twice)
		}
	}
}

func TestFilter_OrderIndependent(t *testing.T) {
	message := "name=Bob;email=bob@x.com;phone=123;ssn=9;"
	a := Filter([]string{"name", "email", "ssn"}, "***", message, ";")
	b := Filter([]string{"ssn", "email", "name"}, "***", message, ";")
	if a != b {
		t.Errorf("Expected field order not to matter, got %q and %q", a, b)
	}
}

func TestRedactor(t *testing.T) {
	fields := []string{"email"}
	r := New(fields, "[hidden]", ";")

	// mutating the caller's slice must not affect the redactor
	fields[0] = "phone"

	got := r.Redact("email=a@b.c;phone=1;")
	if got != "email=[hidden];phone=1;" {
		t.Errorf("Redact() = %q", got)
	}
}
