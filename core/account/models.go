package account

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/SandyWyper/Know-How/core"
)

// Roles
const (
	// Staff can see and edit every listing.
	RoleStaff      = "staff:"
	RoleSuperuser  = "staff:superuser"
	RoleModerator  = "staff:moderator"
	roleSuperLevel = 30
)

var (
	StaffRoles = []string{RoleStaff, RoleModerator, RoleSuperuser}
	AllRoles   = StaffRoles

	rolePriorities = map[string]int{
		RoleSuperuser: roleSuperLevel,
		RoleModerator: 21,
		RoleStaff:     20,
	}

	Roles = []Role{
		{Name: "Staff", Value: RoleStaff},
		{Name: "Moderator", Value: RoleModerator},
		{Name: "Superuser", Value: RoleSuperuser},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (acc *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acc.PasswordHash = hash
	return nil
}

func (acc *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(pwd))
}

func (acc *Account) RoleStartsWith(prefix string) bool {
	for _, role := range acc.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

// IsStaff is true for staff and superusers.
func (acc *Account) IsStaff() bool {
	return acc.RoleStartsWith(RoleStaff)
}

func (acc *Account) IsSuperuser() bool {
	return MaxRolePriority(acc.Roles) >= roleSuperLevel
}

// FullName is "First Last", or the username when neither is set.
func (acc *Account) FullName() string {
	if name := strings.TrimSpace(acc.FirstName + " " + acc.LastName); name != "" {
		return name
	}
	return acc.Username
}

// Public is the account as shown to other people.
func (acc Account) Public(showEmail bool) PublicAccount {
	pa := PublicAccount{
		ID:        acc.ID,
		Username:  acc.Username,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
	}
	if showEmail {
		pa.Email = acc.Email
	}
	return pa
}

type PublicAccount struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// NewAccount contains information needed to create a new Account.
type NewAccount struct {
	Username        string   `json:"username" validate:"required,min=3,max=150,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email,max=254"`
	FirstName       string   `json:"first_name" validate:"max=30"`
	LastName        string   `json:"last_name" validate:"max=30"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"-" validate:"omitempty,allroles"` // admin tooling only
}

func (na *NewAccount) Clean() {
	na.Username = core.CleanString(na.Username, true /* lower */)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.FirstName = core.CleanString(na.FirstName)
	na.LastName = core.CleanString(na.LastName)
}

// UpdateDetails holds the account fields a user edits alongside their profile.
type UpdateDetails struct {
	FirstName string `json:"first_name" validate:"max=30"`
	LastName  string `json:"last_name" validate:"max=30"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
}

func (ud *UpdateDetails) Clean() {
	ud.FirstName = core.CleanString(ud.FirstName)
	ud.LastName = core.CleanString(ud.LastName)
	ud.Email = core.CleanString(ud.Email, true /* lower */)
}

func (ud *UpdateDetails) Validate(validate *validator.Validate) error {
	ud.Clean()
	return validate.Struct(ud)
}

type ResetPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }

// GetFilter selects a single Account; the first non-empty field wins.
type GetFilter struct {
	ID              string
	Username        string
	Email           string
	UsernameOrEmail string
}
