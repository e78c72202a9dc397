package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-namestamp/internal/handlers"
	"go-namestamp/internal/pdf"
	"go-namestamp/internal/pdf/pdftest"
	"go-namestamp/internal/session"

	"github.com/xuri/excelize/v2"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return setupTestServerWith(t, pdf.NewGenerator(true))
}

func setupTestServerWith(t *testing.T, gen handlers.Generator) *httptest.Server {
	t.Helper()
	s := &Server{
		SessionManager: session.NewSessionManager(),
		Generator:      gen,
		UploadDir:      t.TempDir(),
		OutputDir:      t.TempDir(),
		MaxUpload:      25 << 20,
	}
	server := httptest.NewServer(s.RegisterRoutes())
	t.Cleanup(server.Close)
	return server
}

func createSession(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/sessions/", "application/json", nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer resp.Body.Close()
	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return result["sessionId"]
}

func upload(t *testing.T, url, field, filename string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile(field, filename)
	_, _ = part.Write(data)
	writer.Close()

	req, _ := http.NewRequest("POST", url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to upload %s: %v", filename, err)
	}
	return resp
}

func send(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, url, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

// namesWorkbook returns an .xlsx with one group per column.
func namesWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("Failed to build workbook: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to build workbook: %v", err)
	}
	return buf.Bytes()
}

func decodePreview(t *testing.T, resp *http.Response) session.Preview {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected 200 OK, got %d: %s", resp.StatusCode, body)
	}
	var p session.Preview
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("Failed to decode preview: %v", err)
	}
	return p
}

func TestCreateSession(t *testing.T) {
	server := setupTestServer(t)

	if createSession(t, server) == "" {
		t.Error("Expected sessionId in response")
	}

	resp := send(t, "GET", server.URL+"/api/sessions/unknown/preview", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", resp.StatusCode)
	}
}

func TestUploadTemplate(t *testing.T) {
	server := setupTestServer(t)
	sessionID := createSession(t, server)
	url := server.URL + "/api/sessions/" + sessionID + "/template"

	t.Run("valid PDF", func(t *testing.T) {
		resp := upload(t, url, "pdf", "worksheet.pdf", pdftest.Template(612, 792, 90))
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("Expected 200 OK, got %d: %s", resp.StatusCode, body)
		}
		var result struct {
			Template pdf.TemplateInfo `json:"template"`
			Preview  session.Preview  `json:"preview"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		if result.Template.Rotation != 90 {
			t.Errorf("Expected intrinsic rotation 90, got %d", result.Template.Rotation)
		}
		if result.Preview.Viewport != (pdf.Size{Width: 792, Height: 612}) {
			t.Errorf("Expected landscape viewport, got %+v", result.Preview.Viewport)
		}
	})

	t.Run("not a PDF", func(t *testing.T) {
		resp := upload(t, url, "pdf", "notpdf.pdf", []byte("just some text"))
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("Expected 400 for invalid PDF, got %d", resp.StatusCode)
		}
	})

	t.Run("broken PDF", func(t *testing.T) {
		resp := upload(t, url, "pdf", "broken.pdf", []byte("%PDF-1.4\nthis is not a pdf body"))
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("Expected 422 for unreadable PDF, got %d", resp.StatusCode)
		}
	})
}

func TestUploadNames(t *testing.T) {
	server := setupTestServer(t)
	sessionID := createSession(t, server)
	url := server.URL + "/api/sessions/" + sessionID + "/names"

	t.Run("workbook", func(t *testing.T) {
		data := namesWorkbook(t,
			[]interface{}{"Mrs Smith", "Mr Jones"},
			[]interface{}{"Ann", "Cleo"},
			[]interface{}{"Ben", nil},
		)
		resp := upload(t, url, "names", "class.xlsx", data)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("Expected 200 OK, got %d: %s", resp.StatusCode, body)
		}
		var result struct {
			Groups  [][]string      `json:"groups"`
			Preview session.Preview `json:"preview"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		if len(result.Groups) != 2 || strings.Join(result.Groups[0], ",") != "Mrs Smith,Ann,Ben" {
			t.Errorf("Unexpected groups: %v", result.Groups)
		}
		if result.Preview.Groups != 2 || result.Preview.Names != 3 {
			t.Errorf("Expected 2 groups and 3 names, got %d and %d", result.Preview.Groups, result.Preview.Names)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		resp := upload(t, url, "names", "class.csv", []byte("a,b\n"))
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("Expected 400 for csv, got %d", resp.StatusCode)
		}
	})
}

func TestPreviewControls(t *testing.T) {
	server := setupTestServer(t)
	sessionID := createSession(t, server)
	base := server.URL + "/api/sessions/" + sessionID

	resp := upload(t, base+"/template", "pdf", "worksheet.pdf", pdftest.Template(600, 800, 0))
	resp.Body.Close()

	p := decodePreview(t, send(t, "PUT", base+"/placement", map[string]float64{"x": 5000, "y": 10}))
	if p.Placement != (pdf.Point{X: 550, Y: 10}) {
		t.Errorf("Expected placement clamped to 550,10, got %+v", p.Placement)
	}

	p = decodePreview(t, send(t, "POST", base+"/actions/rotate", nil))
	if p.Rotation != 90 || p.Placement != session.DefaultPlacement {
		t.Errorf("Expected rotation 90 with default placement, got %d %+v", p.Rotation, p.Placement)
	}
	if p.Viewport != (pdf.Size{Width: 800, Height: 600}) {
		t.Errorf("Expected swapped viewport, got %+v", p.Viewport)
	}

	p = decodePreview(t, send(t, "PUT", base+"/placeholder", map[string]float64{"width": 120, "height": 30}))
	if p.Placeholder != (pdf.Size{Width: 120, Height: 30}) {
		t.Errorf("Unexpected placeholder %+v", p.Placeholder)
	}

	resp = send(t, "PUT", base+"/placeholder", map[string]float64{"width": -1, "height": 30})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for negative placeholder, got %d", resp.StatusCode)
	}

	p = decodePreview(t, send(t, "POST", base+"/actions/restart", nil))
	if p.HasTemplate || p.Rotation != 0 {
		t.Errorf("Expected a fresh session after restart, got %+v", p)
	}
}

func TestGenerateAndDownload(t *testing.T) {
	server := setupTestServer(t)
	sessionID := createSession(t, server)
	base := server.URL + "/api/sessions/" + sessionID

	// Nothing uploaded yet
	resp := send(t, "POST", base+"/actions/generate", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400 without names or template, got %d", resp.StatusCode)
	}

	data := namesWorkbook(t,
		[]interface{}{"Group A", "Group B"},
		[]interface{}{"Ann", "Cleo"},
		[]interface{}{"Ben"},
	)
	resp = upload(t, base+"/names", "names", "class.xlsx", data)
	resp.Body.Close()
	resp = upload(t, base+"/template", "pdf", "worksheet.pdf", pdftest.Template(612, 792, 0))
	resp.Body.Close()
	decodePreview(t, send(t, "POST", base+"/actions/rotate", nil))

	resp = send(t, "POST", base+"/actions/generate", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected 200 OK, got %d: %s", resp.StatusCode, body)
	}
	var result struct {
		DownloadURL string `json:"downloadUrl"`
		Pages       int    `json:"pages"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	if !strings.HasPrefix(result.DownloadURL, "/api/sessions/"+sessionID+"/files/") {
		t.Fatalf("Expected downloadUrl in response, got %q", result.DownloadURL)
	}
	// Two title pages plus three names.
	if result.Pages != 5 {
		t.Errorf("Expected 5 pages, got %d", result.Pages)
	}

	dl, err := http.Get(server.URL + result.DownloadURL)
	if err != nil {
		t.Fatalf("Failed to download: %v", err)
	}
	body, _ := io.ReadAll(dl.Body)
	dl.Body.Close()
	if dl.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", dl.StatusCode)
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Error("Expected a PDF download")
	}
	if cd := dl.Header.Get("Content-Disposition"); !strings.Contains(cd, "personalized-names.pdf") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}

	// The file is delivered once.
	again, err := http.Get(server.URL + result.DownloadURL)
	if err != nil {
		t.Fatalf("Failed to download: %v", err)
	}
	again.Body.Close()
	if again.StatusCode == http.StatusOK {
		t.Error("Expected the second download to fail")
	}
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(pdf.Job) (*pdf.Result, error) {
	panic("generator failed")
}

func TestGenerateReleasesSessionAfterPanic(t *testing.T) {
	server := setupTestServerWith(t, panickingGenerator{})
	sessionID := createSession(t, server)
	base := server.URL + "/api/sessions/" + sessionID

	resp := upload(t, base+"/names", "names", "class.xlsx", namesWorkbook(t, []interface{}{"Class"}, []interface{}{"Ann"}))
	resp.Body.Close()
	resp = upload(t, base+"/template", "pdf", "worksheet.pdf", pdftest.Template(612, 792, 0))
	resp.Body.Close()

	for i := 0; i < 2; i++ {
		resp = send(t, "POST", base+"/actions/generate", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("Generate #%d: expected 500, got %d", i+1, resp.StatusCode)
		}
	}
}
