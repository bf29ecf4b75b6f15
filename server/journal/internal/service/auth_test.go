package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	dbPath  string
	service *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.dbPath = fmt.Sprintf("test_auth_%d.db", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(s.dbPath), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&journal.User{}))
	s.db = db
	s.service = NewAuthService(db, "test-secret", 12, zap.NewNop())
}

func (s *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
	s.Require().NoError(os.Remove(s.dbPath))
}

func (s *AuthServiceTestSuite) createUser(username, password, role string) journal.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	user := journal.User{Username: username, Password: string(hash), Name: username, Role: role}
	s.Require().NoError(s.db.Create(&user).Error)
	return user
}

func (s *AuthServiceTestSuite) TestLoginIssuesParsableToken() {
	user := s.createUser("dispatcher", "secret123", journal.RoleEditor)

	resp, err := s.service.Login(&LoginRequest{Username: "dispatcher", Password: "secret123"})
	s.Require().NoError(err)

	s.Equal(user.ID, resp.User.ID)
	s.Equal(journal.RoleEditor, resp.User.Role)
	s.NotEmpty(resp.Token)

	claims, err := s.service.ParseToken(resp.Token)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.UserID)
	s.Equal("dispatcher", claims.Username)
	s.Equal(journal.RoleEditor, claims.Role)
}

func (s *AuthServiceTestSuite) TestLoginRejectsWrongPassword() {
	s.createUser("dispatcher", "secret123", journal.RoleEditor)

	_, err := s.service.Login(&LoginRequest{Username: "dispatcher", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.service.Login(&LoginRequest{Username: "nobody", Password: "secret123"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestParseTokenRejectsForeignSecret() {
	s.createUser("dispatcher", "secret123", journal.RoleEditor)
	resp, err := s.service.Login(&LoginRequest{Username: "dispatcher", Password: "secret123"})
	s.Require().NoError(err)

	other := NewAuthService(s.db, "different-secret", 12, zap.NewNop())
	_, err = other.ParseToken(resp.Token)
	s.Error(err)
}

func (s *AuthServiceTestSuite) TestCreateUserRejectsDuplicateUsername() {
	s.createUser("dispatcher", "secret123", journal.RoleEditor)

	_, err := s.service.CreateUser(&UserWriteDTO{Username: "dispatcher", Password: "x", Name: "n", Role: journal.RoleReader})
	s.ErrorIs(err, ErrUsernameTaken)
}

func (s *AuthServiceTestSuite) TestUpdateUserKeepsPasswordWhenEmpty() {
	user := s.createUser("dispatcher", "secret123", journal.RoleEditor)

	_, err := s.service.UpdateUser(user.ID, &UserWriteDTO{Username: "dispatcher", Name: "Renamed", Role: journal.RoleSenior})
	s.Require().NoError(err)

	_, err = s.service.Login(&LoginRequest{Username: "dispatcher", Password: "secret123"})
	s.NoError(err)

	var got journal.User
	s.Require().NoError(s.db.First(&got, user.ID).Error)
	s.Equal("Renamed", got.Name)
	s.Equal(journal.RoleSenior, got.Role)
}

func (s *AuthServiceTestSuite) TestUpdateUserRehashesGivenPassword() {
	user := s.createUser("dispatcher", "secret123", journal.RoleEditor)

	_, err := s.service.UpdateUser(user.ID, &UserWriteDTO{Username: "dispatcher", Password: "new-pass", Name: "n", Role: journal.RoleEditor})
	s.Require().NoError(err)

	_, err = s.service.Login(&LoginRequest{Username: "dispatcher", Password: "secret123"})
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.service.Login(&LoginRequest{Username: "dispatcher", Password: "new-pass"})
	s.NoError(err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
