package mrz

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Checksum", func() {
	var (
		field string
		digit int
		err   error
	)

	JustBeforeEach(func() {
		digit, err = Checksum(field)
	})

	When("computing over the canonical date field", func() {
		BeforeEach(func() {
			field = "740812"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should compute the documented digit", func() {
			Expect(digit).To(Equal(2))
		})
	})

	When("computing over a field with letters and fillers", func() {
		BeforeEach(func() {
			field = "L898902C<"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should weight fillers as zero", func() {
			Expect(digit).To(Equal(3))
		})
	})

	When("the field contains a character outside the ICAO set", func() {
		BeforeEach(func() {
			field = "74a812"
		})

		It("returns an invalid character error", func() {
			var derr *DecodeError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &derr)).To(BeTrue())
			Expect(derr.Code).To(Equal(InvalidCharacter))
		})
	})
})

var _ = Describe("VerifyChecksum", func() {
	var (
		field string
		digit byte
		ok    bool
		err   error
	)

	JustBeforeEach(func() {
		ok, err = VerifyChecksum(field, digit)
	})

	When("the digit matches", func() {
		BeforeEach(func() {
			field = "740812"
			digit = '2'
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report a match", func() {
			Expect(ok).To(BeTrue())
		})
	})

	When("the digit does not match", func() {
		BeforeEach(func() {
			field = "740812"
			digit = '7'
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report a mismatch, not an error", func() {
			Expect(ok).To(BeFalse())
		})
	})

	When("the expected character is not a digit", func() {
		BeforeEach(func() {
			field = "740812"
			digit = 'Z'
		})

		It("returns an invalid check digit error", func() {
			var derr *DecodeError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &derr)).To(BeTrue())
			Expect(derr.Code).To(Equal(InvalidCheckDigit))
		})
	})

	When("round-tripping computed digits", func() {
		BeforeEach(func() {
			field = "ZE184226B<<<<<"
			n, cerr := Checksum(field)
			Expect(cerr).NotTo(HaveOccurred())
			digit = byte('0' + n)
		})

		It("should verify its own computation", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})
	})
})
