package database

import (
	"context"
	"log"

	"github.com/yahyaabohashemstu/yukleme/internal/model"
	"github.com/yahyaabohashemstu/yukleme/internal/repository"
)

// defaultUsers are created on first startup against an empty users table
// so the application is usable out of the box.  Operators are expected to
// change these passwords immediately.
var defaultUsers = []struct {
	username string
	password string
	role     string
}{
	{"murat", "murat123", model.RoleLoader},
	{"mahmud", "mahmud123", model.RoleLoader},
	{"manager", "manager123", model.RoleManager},
	{"pinar", "pinar123", model.RoleManager},
}

// EnsureDefaultUsers seeds the default loader and manager accounts when
// the users table is empty.  A non-empty table is left untouched.
func EnsureDefaultUsers(ctx context.Context, users *repository.UserRepo, bcryptCost int) error {
	n, err := users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	log.Println("users table empty, creating default users")
	for _, u := range defaultUsers {
		if _, err := users.Create(ctx, u.username, u.password, u.role, bcryptCost); err != nil {
			return err
		}
	}
	return nil
}
