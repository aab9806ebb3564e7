package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")
	dec := filepath.Join(dir, "restored.db")

	plaintext := []byte("SQLite format 3\x00 fake database contents for the roundtrip")
	if err := os.WriteFile(src, plaintext, 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt) != saltSize {
		t.Fatalf("salt length = %d, want %d", len(salt), saltSize)
	}

	if err := EncryptFile(src, enc, "passphrase", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	encData, _ := os.ReadFile(enc)
	if bytes.Contains(encData, []byte("fake database contents")) {
		t.Fatal("ciphertext contains plaintext")
	}
	if !bytes.Equal(encData[:saltSize], salt) {
		t.Error("encrypted file does not start with the salt")
	}

	if err := DecryptFile(enc, dec, "passphrase"); err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	restored, _ := os.ReadFile(dec)
	if !bytes.Equal(restored, plaintext) {
		t.Error("decrypted contents differ from original")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")

	if err := os.WriteFile(src, []byte("secret"), 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	salt, _ := GenerateSalt()
	if err := EncryptFile(src, enc, "correct", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "wrong"); err == nil {
		t.Fatal("expected decryption to fail with wrong passphrase")
	}
}

func TestDecryptTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	enc := filepath.Join(dir, "short.enc")
	if err := os.WriteFile(enc, []byte("too short"), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "p"); err == nil {
		t.Fatal("expected error for truncated file")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	a := DeriveKey("passphrase", salt)
	b := DeriveKey("passphrase", salt)
	if !bytes.Equal(a, b) {
		t.Error("same inputs produced different keys")
	}
	if len(a) != keySize {
		t.Errorf("key length = %d, want %d", len(a), keySize)
	}

	c := DeriveKey("other", salt)
	if bytes.Equal(a, c) {
		t.Error("different passphrases produced the same key")
	}
}
