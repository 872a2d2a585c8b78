package models

// User is the signed-in user record kept in session state.
type User struct {
	Email string `json:"email" validate:"required"`
	Role  string `json:"role"`
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}
