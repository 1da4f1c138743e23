package validation

import "testing"

// TestUserID проверяет принятие и отклонение идентификаторов пользователя.
func TestUserID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"телефон 7 цифр", "1234567", nil},
		{"телефон 15 цифр", "123456789012345", nil},
		{"телефон 6 цифр", "123456", ErrUserIDFormat},
		{"телефон 16 цифр", "1234567890123456", ErrUserIDFormat},
		{"email", "user@example.com", nil},
		{"цифры с буквой", "12345a7", ErrUserIDFormat},
		{"пустой id", "", ErrUserIDRequired},
		{"произвольная строка", "not-an-email", ErrUserIDFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := UserID(tt.id); err != tt.wantErr {
				t.Errorf("UserID(%q) = %v, ожидалось %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

// TestPassword проверяет границы длины пароля 4-10 символов.
func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"3 символа", "ab1", ErrPasswordFormat},
		{"4 символа", "abcd", nil},
		{"10 символов", "0123456789", nil},
		{"11 символов", "01234567890", ErrPasswordFormat},
		{"пробелы обрезаются", "  abcd  ", nil},
		{"только пробелы", "      ", ErrPasswordFormat},
		{"пустой", "", ErrPasswordFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Password(tt.password); err != tt.wantErr {
				t.Errorf("Password(%q) = %v, ожидалось %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

// TestFileID проверяет разрешительную числовую проверку id файла.
func TestFileID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"целое", "17", nil},
		{"дробное проходит", "3.5", nil},
		{"отрицательное проходит", "-1", nil},
		{"пустой", "", ErrFileIDRequired},
		{"не число", "abc", ErrFileIDFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := FileID(tt.id); err != tt.wantErr {
				t.Errorf("FileID(%q) = %v, ожидалось %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
