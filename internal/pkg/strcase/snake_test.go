package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "Empty", in: "", want: ""},
		{name: "Simple", in: "Email", want: "email"},
		{name: "CamelCase", in: "NewPassword", want: "new_password"},
		{name: "TrailingAcronym", in: "UserID", want: "user_id"},
		{name: "LeadingAcronym", in: "HTTPServer", want: "http_server"},
		{name: "AlreadySnake", in: "already_snake", want: "already_snake"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {

			// Act
			got := ToLowerSnake(tc.in)

			// Assert
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
