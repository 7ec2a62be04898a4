package models

import (
	"fmt"
	"strings"
)

// Role, kullanıcının platform genelindeki rolüdür.
// Go'da enum yoktur — typed string constant kullanılır.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// roleRank, rollerin hiyerarşideki sırası. Büyük sayı = daha yetkili.
// Listede olmayan (bilinmeyen/boş) rol 0 sayılır — hiçbir role eşit veya üstün değildir.
var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// Rank, rolün hiyerarşideki sırasını döner.
func (r Role) Rank() int {
	return roleRank[r]
}

// Valid, rolün tanımlı bir rol olup olmadığını kontrol eder.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AllRoles, admin arayüzünde seçim listesi için tüm roller (düşükten yükseğe).
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// ParseRole, serbest metinden rol çözer ("admin" → ADMIN).
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UpdateRoleRequest, admin'in bir kullanıcının rolünü değiştirme isteği.
type UpdateRoleRequest struct {
	Role Role `json:"role"`
}

// Validate, rol değerini normalize edip doğrular.
func (r *UpdateRoleRequest) Validate() error {
	role, err := ParseRole(string(r.Role))
	if err != nil {
		return err
	}
	r.Role = role
	return nil
}
