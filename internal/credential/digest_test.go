package credential_test

import (
	"strings"
	"testing"

	"authapp/internal/credential"

	. "github.com/onsi/gomega"
)

func TestSha256DigestIsHexEncoded(t *testing.T) {
	RegisterTestingT(t)

	d := &credential.SHA256Digest{}
	sum := d.Sum("password123")

	// legacy wire format: hex sha256
	Expect(sum).To(Equal("ef92b778bafe771e89245b89ecbc08a44a4e166c06659911881f383d4473e94f"))
	Expect(d.Verify(sum, "password123")).To(BeTrue())
	Expect(d.Verify(sum, "password124")).To(BeFalse())
}

func TestPbkdf2DigestIsDeterministicPerPepper(t *testing.T) {
	RegisterTestingT(t)

	d := &credential.PBKDF2Digest{Pepper: "local-dev-pepper"}
	other := &credential.PBKDF2Digest{Pepper: "another-pepper"}

	sum := d.Sum("password123")

	Expect(len(sum)).To(Equal(64))
	Expect(d.Sum("password123")).To(Equal(sum))
	Expect(other.Sum("password123")).NotTo(Equal(sum))
	Expect(d.Verify(sum, "password123")).To(BeTrue())
	Expect(d.Verify(sum, "wrong")).To(BeFalse())
}

func TestNewDigestSchemeSelection(t *testing.T) {
	RegisterTestingT(t)

	d, err := credential.NewDigest(credential.SchemeSHA256, "")
	Expect(err).NotTo(HaveOccurred())
	Expect(d).To(BeAssignableToTypeOf(&credential.SHA256Digest{}))

	d, err = credential.NewDigest(credential.SchemePBKDF2, "pepper")
	Expect(err).NotTo(HaveOccurred())
	Expect(d).To(BeAssignableToTypeOf(&credential.PBKDF2Digest{}))

	_, err = credential.NewDigest(credential.SchemePBKDF2, "")
	Expect(err).To(HaveOccurred())

	_, err = credential.NewDigest("md5", "")
	Expect(err).To(HaveOccurred())
}

func TestNewActivationTokenShape(t *testing.T) {
	RegisterTestingT(t)

	token, err := credential.NewActivationToken()

	Expect(err).NotTo(HaveOccurred())
	Expect(len(token)).To(Equal(43))
	Expect(token).NotTo(ContainSubstring("+"))
	Expect(token).NotTo(ContainSubstring("/"))
	Expect(token).NotTo(ContainSubstring("="))

	second, err := credential.NewActivationToken()

	Expect(err).NotTo(HaveOccurred())
	Expect(second).NotTo(Equal(token))
}

func TestActivationURLEncodesParams(t *testing.T) {
	RegisterTestingT(t)

	url := credential.ActivationURL("http://example.com", "a+b@x.com", "tok_123")

	Expect(strings.HasPrefix(url, "http://example.com/activate?")).To(BeTrue())
	Expect(url).To(ContainSubstring("activation_token=tok_123"))
	Expect(url).To(ContainSubstring("email=a%2Bb%40x.com"))
}
