package auth_test

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tauraamui/cinefilter/pkg/cine/auth"
)

var _ = Describe("Auth", func() {
	var resetTimeNow func()

	overloadTimeNow := func(at time.Time) {
		timeNowRef := auth.TimeNow
		auth.TimeNow = func() time.Time { return at }
		resetTimeNow = func() { auth.TimeNow = timeNowRef }
	}

	BeforeEach(func() {
		resetTimeNow = func() {}
	})

	AfterEach(func() {
		resetTimeNow()
	})

	Context("Generating and validating tokens", func() {
		It("Should round trip the stream title", func() {
			token, err := auth.GenToken("viewer-secret", "Porch")
			Expect(err).To(BeNil())

			stream, err := auth.ValidateToken("viewer-secret", token)
			Expect(err).To(BeNil())
			Expect(stream).To(Equal("Porch"))
		})

		It("Should reject a token signed with another secret", func() {
			token, err := auth.GenToken("viewer-secret", "Porch")
			Expect(err).To(BeNil())

			_, err = auth.ValidateToken("other-secret", token)
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(ContainSubstring("unable to validate token"))
		})

		It("Should reject garbage", func() {
			_, err := auth.ValidateToken("viewer-secret", "not.a.token")
			Expect(err).ToNot(BeNil())
		})

		It("Should reject an expired token", func() {
			overloadTimeNow(time.Now().Add(-time.Hour))
			token, err := auth.GenToken("viewer-secret", "Porch")
			Expect(err).To(BeNil())
			resetTimeNow()

			_, err = auth.ValidateToken("viewer-secret", token)
			Expect(err).ToNot(BeNil())
		})
	})

	Context("Checking claims", func() {
		It("Should refuse claims of the wrong type", func() {
			_, err := auth.CheckClaims(auth.StandardClaims)
			Expect(err).To(MatchError("unable to parse claims"))
		})

		It("Should refuse a token for another audience", func() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"stream": "Porch",
				"aud":    "someone-else",
				"exp":    time.Now().Add(time.Minute).Unix(),
			})
			signed, err := token.SignedString([]byte("viewer-secret"))
			Expect(err).To(BeNil())

			_, err = auth.ValidateToken("viewer-secret", signed)
			Expect(err).To(MatchError("auth token is not for cinefilter"))
		})
	})

	Context("Granting access", func() {
		It("Should grant a matching stream or every stream", func() {
			Expect(auth.Grants("Porch", "Porch")).To(BeTrue())
			Expect(auth.Grants(auth.AllStreams, "Garden")).To(BeTrue())
			Expect(auth.Grants("Porch", "Garden")).To(BeFalse())
		})
	})
})
