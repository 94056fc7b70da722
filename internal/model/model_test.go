package model

import "testing"

func TestItemCreateDefaultsName(t *testing.T) {
	h := ItemHandlers()

	item := h.FromCreate(ItemCreate{Discription: "no name given"})
	if item.Name != DefaultItemName {
		t.Errorf("Name = %q, want %q", item.Name, DefaultItemName)
	}

	item = h.FromCreate(ItemCreate{Name: "sword"})
	if item.Name != "sword" {
		t.Errorf("Name = %q, want sword", item.Name)
	}
}

func TestItemCreateValidation(t *testing.T) {
	if err := (ItemCreate{Name: "sword", Level: 1}).Validate(); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
	if err := (ItemCreate{Level: -1}).Validate(); err == nil {
		t.Error("negative level accepted")
	}
}

func TestUserCreateValidation(t *testing.T) {
	valid := UserCreate{Name: "carol", Email: "carol@example.com", Password: "hunter2hunter2"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}

	tests := []struct {
		name string
		in   UserCreate
	}{
		{"missing email", UserCreate{Name: "carol", Password: "hunter2hunter2"}},
		{"malformed email", UserCreate{Name: "carol", Email: "not-an-email", Password: "hunter2hunter2"}},
		{"short password", UserCreate{Name: "carol", Email: "carol@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); err == nil {
				t.Error("invalid input accepted")
			}
		})
	}
}

func TestUserReadOmitsPassword(t *testing.T) {
	h := UserHandlers()
	u := &User{ID: 1, Name: "carol", Email: "carol@example.com", Password: "secret"}

	read := h.ToRead(u)
	if read != (UserRead{ID: 1, Name: "carol", Email: "carol@example.com"}) {
		t.Errorf("unexpected projection: %+v", read)
	}
}
