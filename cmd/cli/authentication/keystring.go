package authentication

// keystring.go keeps the access token in the OS keyring, on the client side.
import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "talehub-cli"
	tokenKey    = "auth_tokens"
)

// ErrNotLoggedIn is returned when no token has been stored yet.
var ErrNotLoggedIn = errors.New("not logged in, run `talehub login --token <jwt>` first")

type StoredCredentials struct {
	AccessToken string `json:"access_token"`
	APIURL      string `json:"api_url"`
}

func StoreTokens(creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, tokenKey, string(data))
}

func GetTokens() (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func DeleteTokens() error {
	err := keyring.Delete(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
