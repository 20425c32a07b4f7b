package entity

// Field is an optional value in a partial update. Set distinguishes
// "not supplied" from a supplied zero value.
type Field[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Patch lists the client-settable fields of a TelegramUser after creation.
type Patch struct {
	Username  Field[*string]
	FullName  Field[*string]
	Balance   Field[int64]
	IsManager Field[bool]
	IsAdmin   Field[bool]
}

func (p Patch) Empty() bool {
	return !p.Username.Set && !p.FullName.Set && !p.Balance.Set && !p.IsManager.Set && !p.IsAdmin.Set
}

func (p Patch) Validate() error {
	if p.Username.Set {
		if err := validateLength("username", p.Username.Value, MaxUsernameLength); err != nil {
			return err
		}
	}
	if p.FullName.Set {
		if err := validateLength("fullName", p.FullName.Value, MaxFullNameLength); err != nil {
			return err
		}
	}
	return nil
}
