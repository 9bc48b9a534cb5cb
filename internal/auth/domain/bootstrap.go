package domain

type BootstrapData struct {
	Email       string
	DisplayName string
	Password    string
}
