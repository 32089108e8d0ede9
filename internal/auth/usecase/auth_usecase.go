package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	authdomain "taskportal-backend/internal/auth/domain"
	authdto "taskportal-backend/internal/auth/dto"
	"taskportal-backend/internal/notification"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/state"
	wfdomain "taskportal-backend/internal/workflow/domain"
	"taskportal-backend/pkg/config"
)

// AuthUsecase handles sessions, tokens and user administration.
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Logout()
	ValidateToken(tokenString string) (*authdomain.User, error)
	AddEmployee(actor authdomain.Actor, req *authdto.AddEmployeeRequest) (*authdomain.User, error)
	UpdateProfile(actor authdomain.Actor, userID string, req *authdto.UpdateProfileRequest) error
	ToggleTheme() string
}

type authUsecase struct {
	store  *state.Store
	feed   *notification.Feed
	config *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(store *state.Store, feed *notification.Feed, cfg *config.Config) AuthUsecase {
	return &authUsecase{store: store, feed: feed, config: cfg}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var user *authdomain.User
	u.store.View(func(s *state.AppState) {
		for i := range s.Users {
			if strings.ToLower(s.Users[i].Username) == username {
				copied := s.Users[i]
				user = &copied
			}
		}
	})
	if user == nil || !CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("Invalid credentials.")
	}

	u.store.Update(func(s *state.AppState) {
		s.Session = authdomain.Session{
			LoggedIn: true,
			UserID:   user.ID,
			Role:     user.Role,
		}
	})
	u.feed.Push("Signed in as "+user.Name, notifdomain.SeveritySuccess)

	token, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &authdto.TokenResponse{AccessToken: token, User: user}, nil
}

func (u *authUsecase) Logout() {
	u.store.Update(func(s *state.AppState) {
		s.Session = authdomain.Session{}
	})
	u.feed.Push("You have been signed out.", notifdomain.SeverityInfo)
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	var user *authdomain.User
	u.store.View(func(s *state.AppState) {
		if found := s.FindUser(userID); found != nil {
			copied := *found
			user = &copied
		}
	})
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (u *authUsecase) AddEmployee(actor authdomain.Actor, req *authdto.AddEmployeeRequest) (*authdomain.User, error) {
	if !actor.IsManager() {
		return nil, errors.New("Only manager can perform this action.")
	}

	name := strings.TrimSpace(req.Name)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	password := strings.TrimSpace(req.Password)
	if name == "" || username == "" || password == "" {
		return nil, errors.New("Employee name, username, and password are required.")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	employee := &authdomain.User{
		ID:        wfdomain.NewID("emp"),
		Name:      name,
		Role:      authdomain.RoleEmployee,
		Username:  username,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var taken bool
	u.store.Update(func(s *state.AppState) {
		for _, existing := range s.Users {
			if strings.ToLower(strings.TrimSpace(existing.Username)) == username {
				taken = true
				return
			}
		}
		s.Users = append(s.Users, *employee)
	})
	if taken {
		return nil, errors.New("Username already exists.")
	}

	u.feed.Push(fmt.Sprintf("Employee %q added.", employee.Name), notifdomain.SeveritySuccess)
	return employee, nil
}

func (u *authUsecase) UpdateProfile(actor authdomain.Actor, userID string, req *authdto.UpdateProfileRequest) error {
	if actor.ID != userID && !actor.IsManager() {
		return errors.New("Not allowed to edit this profile.")
	}

	var found bool
	u.store.Update(func(s *state.AppState) {
		if user := s.FindUser(userID); user != nil {
			user.GithubUsername = strings.TrimSpace(req.GithubUsername)
			user.AvatarDataURL = req.AvatarDataURL
			user.UpdatedAt = time.Now()
			found = true
		}
	})
	if !found {
		return errors.New("user not found")
	}

	u.feed.Push("Profile updated.", notifdomain.SeveritySuccess)
	return nil
}

// ToggleTheme flips the stored theme and returns the new value.
func (u *authUsecase) ToggleTheme() string {
	var next string
	u.store.Update(func(s *state.AppState) {
		if s.Theme == state.ThemeDark {
			s.Theme = state.ThemeLight
		} else {
			s.Theme = state.ThemeDark
		}
		next = s.Theme
	})
	return next
}
