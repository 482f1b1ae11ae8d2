package model

import "time"

type Role string

const (
	RoleLab    Role = "lab"
	RoleDoctor Role = "doctor"
)

type Account struct {
	Name     string
	Password string
	Role     Role
}

type Server struct {
	ListenAddr        string
	DataFile          string
	SessionTTL        time.Duration
	Retention         time.Duration
	RetentionSchedule string
	Accounts          []Account
}
