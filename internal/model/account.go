package model

type Account struct {
	AccountID string `json:"account_id" mapstructure:"account_id"`
	Secret    string `json:"-" mapstructure:"secret"`
	Tenant    string `json:"tenant" mapstructure:"tenant"`
}
