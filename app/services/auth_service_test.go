package services_test

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/auth"
)

type fakeUserStore struct {
	users map[string]*models.User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, ok := s.users[user.Email]; ok {
		return apperr.Conflict("Already registered, please login")
	}
	user.ID = primitive.NewObjectID()
	s.users[user.Email] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (s *fakeUserStore) Update(ctx context.Context, user *models.User) error {
	s.users[user.Email] = user
	return nil
}

func registerInput() services.RegisterInput {
	return services.RegisterInput{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret123",
		Phone:    "5551234567",
		Address:  "1 Main St",
		Answer:   "blue",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthServiceWith(store)

	user, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := store.users["jane@example.com"]
	if stored == nil {
		t.Fatal("user was not stored")
	}
	if stored.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")); err != nil {
		t.Error("stored password is not a bcrypt hash of the input")
	}
	if stored.Answer == "blue" {
		t.Error("security answer stored in plaintext")
	}
	if user.Role != models.RoleUser {
		t.Errorf("new accounts must start as regular users, got role %d", user.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthServiceWith(store)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), registerInput())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginMintsValidToken(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthServiceWith(store)

	registered, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), services.LoginInput{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Error("login returned the wrong user")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("minted token does not validate: %v", err)
	}
	if claims.Subject != registered.ID.Hex() {
		t.Errorf("token subject = %q, want the user's id", claims.Subject)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthServiceWith(store)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongEmail := svc.Login(context.Background(), services.LoginInput{
		Email: "nobody@example.com", Password: "secret123",
	})
	_, _, wrongPassword := svc.Login(context.Background(), services.LoginInput{
		Email: "jane@example.com", Password: "wrong",
	})

	if apperr.KindOf(wrongEmail) != apperr.KindUnauthenticated {
		t.Fatalf("wrong email: expected unauthenticated, got %v", wrongEmail)
	}
	if apperr.KindOf(wrongPassword) != apperr.KindUnauthenticated {
		t.Fatalf("wrong password: expected unauthenticated, got %v", wrongPassword)
	}
	if wrongEmail.Error() != wrongPassword.Error() {
		t.Errorf("messages differ: %q vs %q — they leak which field was wrong",
			wrongEmail.Error(), wrongPassword.Error())
	}
}

func TestForgotPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthServiceWith(store)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err := svc.ForgotPassword(context.Background(), services.ForgotPasswordInput{
		Email: "jane@example.com", Answer: "blue", NewPassword: "newsecret",
	})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), services.LoginInput{
		Email: "jane@example.com", Password: "newsecret",
	}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), services.LoginInput{
		Email: "jane@example.com", Password: "secret123",
	}); err == nil {
		t.Error("old password still works after reset")
	}
}

func TestForgotPasswordWrongAnswer(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthServiceWith(store)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err := svc.ForgotPassword(context.Background(), services.ForgotPasswordInput{
		Email: "jane@example.com", Answer: "red", NewPassword: "newsecret",
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthServiceWith(store)

	registered, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), registered.ID.Hex(), services.ProfileInput{
		Phone: "5559999999",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Phone != "5559999999" {
		t.Errorf("phone = %q", updated.Phone)
	}
	if updated.Name != "Jane Doe" || updated.Address != "1 Main St" {
		t.Error("untouched fields must be preserved")
	}
}
