package profile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Update carries the fields a profile update may touch. Nil means the
// field was absent from the request; absent fields are neither
// validated nor written. Which non-nil fields actually apply depends on
// the role's table (an owner row has no room_no, for example) and is
// decided by the store.
type Update struct {
	Name            *string
	Email           *string
	Phone           *string
	RoomNo          *int64
	Age             *int64
	DOB             *string
	BlockNo         *string
	Password        *string
	ConfirmPassword *string
}

// FieldError names one violated rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries every violated rule of a rejected update. The
// update is all-or-nothing: a single violation rejects the whole request
// and nothing is written.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, " ")
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// French mobile numbers: +336/+337 or 06/07 followed by 8 digits.
	phoneRe = regexp.MustCompile(`^((\+33[67])|(0[67]))\d{8}$`)
	digitRe = regexp.MustCompile(`^\d+$`)
)

// dob values arrive either as a plain date or a full RFC 3339 timestamp
// depending on which client form produced them.
var dobLayouts = []string{"2006-01-02", time.RFC3339}

// Validate checks every present field and accumulates all violations.
// Block existence is a storage question and is checked separately by the
// service. The returned slice is nil when the update is clean.
func Validate(u Update) []FieldError {
	var errs []FieldError

	if u.Name != nil && len(strings.TrimSpace(*u.Name)) < 2 {
		errs = append(errs, FieldError{"name", "Le nom doit contenir au moins 2 caractères."})
	}
	if u.Email != nil && !emailRe.MatchString(*u.Email) {
		errs = append(errs, FieldError{"email", "Adresse e-mail invalide."})
	}
	if u.Phone != nil && !phoneRe.MatchString(*u.Phone) {
		errs = append(errs, FieldError{"phone", "Le numéro de téléphone doit commencer par +336, +337, 06, ou 07 et être suivi de 8 chiffres."})
	}
	if u.RoomNo != nil && *u.RoomNo <= 0 {
		errs = append(errs, FieldError{"room_no", "Le numéro de chambre doit être un entier positif."})
	}
	if u.Age != nil && (*u.Age <= 0 || *u.Age > 130) {
		errs = append(errs, FieldError{"age", "L'âge doit être un entier positif."})
	}
	if u.DOB != nil {
		if dob, ok := parseDOB(*u.DOB); !ok {
			errs = append(errs, FieldError{"dob", "Date de naissance invalide."})
		} else if !dob.Before(time.Now()) {
			errs = append(errs, FieldError{"dob", "La date de naissance doit être dans le passé."})
		}
	}
	if u.BlockNo != nil {
		if n, err := strconv.ParseInt(*u.BlockNo, 10, 64); err != nil || !digitRe.MatchString(*u.BlockNo) || n <= 0 {
			errs = append(errs, FieldError{"block_no", "Le numéro de bloc doit être un entier positif."})
		}
	}
	if u.Password != nil {
		if len(*u.Password) < 6 {
			errs = append(errs, FieldError{"password", "Le mot de passe doit contenir au moins 6 caractères."})
		}
		if u.ConfirmPassword != nil && *u.ConfirmPassword != *u.Password {
			errs = append(errs, FieldError{"confirmPassword", "Les mots de passe ne correspondent pas."})
		}
	}
	return errs
}

func parseDOB(s string) (time.Time, bool) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func blockError(blockNo string) FieldError {
	return FieldError{"block_no", fmt.Sprintf("Le bloc %s n'existe pas.", blockNo)}
}
