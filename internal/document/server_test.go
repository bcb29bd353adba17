package document

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Server", func() {
	var (
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	newService := func() *Service {
		return NewServiceWithDeps(newMockDB(), testParser(), newMockStorage(), &mockIDGenerator{}, &mockTimeSource{})
	}

	BeforeEach(func() {
		service = newService()
		auth = BasicAuth{}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	postJSON := func(path string, body any) *http.Response {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(ghttpServer.URL()+path, "application/json", bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("handleIngestRecord", func() {
		When("the MRZ decodes", func() {
			It("should return status Created with the record", func() {
				resp := postJSON("/api/documents", map[string]string{"mrz": specimenTD3})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var record Record
				Expect(json.NewDecoder(resp.Body).Decode(&record)).To(Succeed())
				Expect(record.Kind).To(Equal("passport"))
				Expect(record.Passport.Surname).To(Equal("ERIKSSON"))
			})
		})

		When("the MRZ does not decode", func() {
			It("should return status Unprocessable Entity with the stage", func() {
				resp := postJSON("/api/documents", map[string]string{"mrz": "X<UTO"})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

				var body map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				Expect(body).To(HaveKeyWithValue("stage", "unrecognized layout"))
			})
		})

		When("the body is not JSON", func() {
			It("should return status Bad Request", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/documents", "application/json", bytes.NewReader([]byte("not json")))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})

		When("the mrz field is empty", func() {
			It("should return status Bad Request", func() {
				resp := postJSON("/api/documents", map[string]string{})
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})
	})

	Describe("handleListRecords", func() {
		When("records exist", func() {
			BeforeEach(func() {
				_, err := service.IngestMRZ(specimenTD3)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return every record", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/documents")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var records []*Record
				Expect(json.NewDecoder(resp.Body).Decode(&records)).To(Succeed())
				Expect(records).To(HaveLen(1))
			})
		})
	})

	Describe("handleGetRecord", func() {
		When("the record exists", func() {
			BeforeEach(func() {
				_, err := service.IngestMRZ(specimenTD1)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the record", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/documents/test-id-1")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var record Record
				Expect(json.NewDecoder(resp.Body).Decode(&record)).To(Succeed())
				Expect(record.Kind).To(Equal("identity_card"))
				Expect(record.IdentityCard.DocumentNumber).To(Equal("CA00000AA"))
			})
		})

		When("the record does not exist", func() {
			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/documents/missing")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				resp.Body.Close()
			})
		})
	})

	Describe("handleGetRecordMRZ", func() {
		BeforeEach(func() {
			_, err := service.IngestMRZ(specimenTD3)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should serve the raw strip as text", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/documents/test-id-1/mrz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/plain"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(specimenTD3))
		})
	})

	Describe("handleDeleteRecord", func() {
		BeforeEach(func() {
			_, err := service.IngestMRZ(specimenTD3)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return status No Content", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/documents/test-id-1", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			resp.Body.Close()
		})
	})

	Describe("handleImportBatch", func() {
		When("every strip decodes", func() {
			It("should return status Created with the batch", func() {
				resp := postJSON("/api/batches", map[string][]string{"mrz": {specimenTD3, specimenTD1}})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var batch Batch
				Expect(json.NewDecoder(resp.Body).Decode(&batch)).To(Succeed())
				Expect(batch.Passports).To(Equal(1))
				Expect(batch.Cards).To(Equal(1))
			})
		})

		When("a strip fails to decode", func() {
			It("should return status Unprocessable Entity", func() {
				resp := postJSON("/api/batches", map[string][]string{"mrz": {specimenTD3, "garbage"}})
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				resp.Body.Close()
			})
		})

		When("the list is empty", func() {
			It("should return status Bad Request", func() {
				resp := postJSON("/api/batches", map[string][]string{"mrz": {}})
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})
	})

	Describe("handleGetBatch", func() {
		BeforeEach(func() {
			_, err := service.ImportBatch([]string{specimenTD3, specimenTD1})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the batch with its records", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/batches/test-id-1")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Batch   *Batch    `json:"batch"`
				Records []*Record `json:"records"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Batch.ID).To(Equal("test-id-1"))
			Expect(body.Records).To(HaveLen(2))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "pass"}
			server = NewServerWithMux(service, auth, http.NewServeMux())
			setupServer()
		})

		When("credentials are missing", func() {
			It("should return status Unauthorized", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/documents")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})

		When("credentials are correct", func() {
			It("should return status OK", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/documents", nil)
				Expect(err).NotTo(HaveOccurred())
				req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("user:pass")))
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})
		})
	})
})
