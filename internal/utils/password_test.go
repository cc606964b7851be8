package utils

import "testing"

func TestHashPassword_SaltUnique(t *testing.T) {
	h1, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("ошибка хеширования: %v", err)
	}
	h2, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("ошибка хеширования: %v", err)
	}
	if h1 == h2 {
		t.Fatal("два хеша одного пароля совпали — соль не уникальна")
	}
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret-pw")
	if err != nil {
		t.Fatalf("ошибка хеширования: %v", err)
	}

	if !CheckPasswordHash("secret-pw", hash) {
		t.Fatal("верный пароль не прошёл проверку")
	}
	if CheckPasswordHash("wrong-pw", hash) {
		t.Fatal("неверный пароль прошёл проверку")
	}
}

func TestCheckPasswordHash_MalformedDigest(t *testing.T) {
	if CheckPasswordHash("pw", "не-bcrypt-хеш") {
		t.Fatal("битый хеш не должен проходить проверку")
	}
	if CheckPasswordHash("pw", "") {
		t.Fatal("пустой хеш не должен проходить проверку")
	}
}
