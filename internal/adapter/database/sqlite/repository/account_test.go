package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"authapp/internal/account"
	"authapp/internal/adapter/database/sqlite/repository"
	"authapp/internal/credential"
	"authapp/internal/test"
)

type AccountRepositorySuite struct {
	suite.Suite
	DB   *sql.DB
	Repo *repository.AccountRepository
}

func TestAccountRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AccountRepositorySuite))
}

func (s *AccountRepositorySuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.Repo = repository.NewAccountRepository(s.DB)
}

func (s *AccountRepositorySuite) TearDownTest() {
	s.DB.Close()
}

func (s *AccountRepositorySuite) newAccount(email string) account.Account {
	digest := &credential.SHA256Digest{}
	token, _ := credential.NewActivationToken()
	now := time.Now()

	return account.Account{
		UUID:             uuid.New(),
		Email:            email,
		CredentialDigest: digest.Sum("12345678"),
		ActivationToken:  token,
		Activated:        false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (s *AccountRepositorySuite) TestExists() {
	ctx := context.Background()

	exists, err := s.Repo.Exists(ctx, "nobody@test.com")
	Expect(err).NotTo(HaveOccurred())
	Expect(exists).To(BeFalse())

	_, err = s.Repo.Insert(ctx, s.newAccount("eu@test.com"))
	Expect(err).NotTo(HaveOccurred())

	exists, err = s.Repo.Exists(ctx, "eu@test.com")
	Expect(err).NotTo(HaveOccurred())
	Expect(exists).To(BeTrue())
}

func (s *AccountRepositorySuite) TestInsertReturnsSavedAccount() {
	ctx := context.Background()
	acct := s.newAccount("eu@test.com")

	saved, err := s.Repo.Insert(ctx, acct)

	Expect(err).NotTo(HaveOccurred())
	Expect(saved.ID).NotTo(BeZero())
	Expect(saved.UUID).To(Equal(acct.UUID))
	Expect(saved.Email).To(Equal("eu@test.com"))
	Expect(saved.ActivationToken).To(Equal(acct.ActivationToken))
	Expect(saved.Activated).To(BeFalse())
}

func (s *AccountRepositorySuite) TestInsertDuplicateIdentity() {
	ctx := context.Background()

	first := s.newAccount("eu@test.com")
	_, err := s.Repo.Insert(ctx, first)
	Expect(err).NotTo(HaveOccurred())

	_, err = s.Repo.Insert(ctx, s.newAccount("eu@test.com"))
	Expect(errors.Is(err, account.ErrDuplicateIdentity)).To(BeTrue())

	// original row untouched
	tokenOfFirst := first.ActivationToken
	changed, err := s.Repo.Activate(ctx, "eu@test.com", tokenOfFirst)
	Expect(err).NotTo(HaveOccurred())
	Expect(changed).To(BeTrue())
}

func (s *AccountRepositorySuite) TestActivateRequiresMatchingToken() {
	ctx := context.Background()
	acct := s.newAccount("eu@test.com")

	_, err := s.Repo.Insert(ctx, acct)
	Expect(err).NotTo(HaveOccurred())

	changed, err := s.Repo.Activate(ctx, "eu@test.com", "garbage-token")
	Expect(err).NotTo(HaveOccurred())
	Expect(changed).To(BeFalse())

	changed, err = s.Repo.Activate(ctx, "eu@test.com", acct.ActivationToken)
	Expect(err).NotTo(HaveOccurred())
	Expect(changed).To(BeTrue())
}

func (s *AccountRepositorySuite) TestActivateIsSingleUse() {
	ctx := context.Background()
	acct := s.newAccount("eu@test.com")

	_, err := s.Repo.Insert(ctx, acct)
	Expect(err).NotTo(HaveOccurred())

	changed, err := s.Repo.Activate(ctx, "eu@test.com", acct.ActivationToken)
	Expect(err).NotTo(HaveOccurred())
	Expect(changed).To(BeTrue())

	// consuming the same token again changes nothing
	changed, err = s.Repo.Activate(ctx, "eu@test.com", acct.ActivationToken)
	Expect(err).NotTo(HaveOccurred())
	Expect(changed).To(BeFalse())
}

func (s *AccountRepositorySuite) TestActivateUnknownIdentity() {
	ctx := context.Background()

	changed, err := s.Repo.Activate(ctx, "nobody@test.com", "whatever")
	Expect(err).NotTo(HaveOccurred())
	Expect(changed).To(BeFalse())
}

func (s *AccountRepositorySuite) TestFindForAuthOnlyMatchesActivatedAccounts() {
	ctx := context.Background()
	acct := s.newAccount("eu@test.com")

	_, err := s.Repo.Insert(ctx, acct)
	Expect(err).NotTo(HaveOccurred())

	// pending account never authenticates
	found, err := s.Repo.FindForAuth(ctx, "eu@test.com", acct.CredentialDigest)
	Expect(err).NotTo(HaveOccurred())
	Expect(found).To(BeNil())

	_, err = s.Repo.Activate(ctx, "eu@test.com", acct.ActivationToken)
	Expect(err).NotTo(HaveOccurred())

	found, err = s.Repo.FindForAuth(ctx, "eu@test.com", acct.CredentialDigest)
	Expect(err).NotTo(HaveOccurred())
	Expect(found).NotTo(BeNil())
	Expect(found.Email).To(Equal("eu@test.com"))
	Expect(found.Activated).To(BeTrue())
}

func (s *AccountRepositorySuite) TestFindForAuthRejectsWrongDigest() {
	ctx := context.Background()
	acct := s.newAccount("eu@test.com")
	digest := &credential.SHA256Digest{}

	_, err := s.Repo.Insert(ctx, acct)
	Expect(err).NotTo(HaveOccurred())

	_, err = s.Repo.Activate(ctx, "eu@test.com", acct.ActivationToken)
	Expect(err).NotTo(HaveOccurred())

	found, err := s.Repo.FindForAuth(ctx, "eu@test.com", digest.Sum("wrongpassword"))
	Expect(err).NotTo(HaveOccurred())
	Expect(found).To(BeNil())
}

func (s *AccountRepositorySuite) TestFindForAuthUnknownIdentity() {
	ctx := context.Background()
	digest := &credential.SHA256Digest{}

	found, err := s.Repo.FindForAuth(ctx, "nobody@test.com", digest.Sum("12345678"))
	Expect(err).NotTo(HaveOccurred())
	Expect(found).To(BeNil())
}
