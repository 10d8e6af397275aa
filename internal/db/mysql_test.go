package db

import "testing"

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"clientes", "`clientes`"},
		{"odd`name", "`odd``name`"},
		{"", "``"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteIdentifier(tt.name); got != tt.want {
				t.Errorf("QuoteIdentifier(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseDatabaseName(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{dsn: "root:root@tcp(localhost:3306)/erp_local", want: "erp_local"},
		{dsn: "user:pass@tcp(db:3306)/shop?parseTime=true", want: "shop"},
		{dsn: "root:root@tcp(localhost:3306)/", wantErr: true},
		{dsn: "not a dsn", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := ParseDatabaseName(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDatabaseName() = %q, want %q", got, tt.want)
			}
		})
	}
}
