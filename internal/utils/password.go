package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword хеширует пароль bcrypt-ом. Соль генерируется на каждый вызов,
// поэтому два хеша одного пароля никогда не совпадают.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash сверяет пароль с хешем. Любая ошибка (в том числе
// битый или пустой хеш) — это false, без паники.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
