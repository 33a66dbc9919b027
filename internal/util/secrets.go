package util

import (
	"encoding/json"
	"fmt"
	"os"
)

type Secrets struct {
	Qplix         QplixSecrets `json:"qplix"`
	ChatGPTApiKey string       `json:"gpt"`
	JwtDecodeKey  string       `json:"jwt"`
	Db            DbSecrets    `json:"db"`
}

type QplixSecrets struct {
	Endpoint string `json:"endpoint"`
	ApiToken string `json:"apiToken"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "/go/src/app/secrets.json"
	if os.Getenv("WEALTHLENS_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	} else if os.Getenv("WEALTHLENS_ENV") == "test" {
		secretsFile = "secrets-test.json"
	}
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open secrets.json: %w", err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, err
	}

	return &secrets, nil
}
