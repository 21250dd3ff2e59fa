package vmrest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nanovms/hvctl/vmerr"
)

// validator is implemented by response documents with required fields
type validator interface {
	validate() error
}

// decode unmarshals a response body strictly: unknown fields, trailing
// data and missing required fields are ParseFailure
func decode(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return vmerr.Wrap(vmerr.ParseFailure, err, "decoding response")
	}
	if _, err := dec.Token(); err != io.EOF {
		return vmerr.New(vmerr.ParseFailure, "trailing data after response document")
	}
	if val, ok := v.(validator); ok {
		if err := val.validate(); err != nil {
			return vmerr.Wrap(vmerr.ParseFailure, err, "decoding response")
		}
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing required field %q", name)
	}
	return nil
}

type vmEntry struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type vmList []vmEntry

func (l vmList) validate() error {
	for _, e := range l {
		if err := required("id", e.ID); err != nil {
			return err
		}
		if err := required("path", e.Path); err != nil {
			return err
		}
	}
	return nil
}

type powerDoc struct {
	PowerState string `json:"power_state"`
}

func (p *powerDoc) validate() error {
	return required("power_state", p.PowerState)
}

type ipDoc struct {
	IP string `json:"ip"`
}

func (d *ipDoc) validate() error {
	return required("ip", d.IP)
}

type nicDoc struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	VMnet      string `json:"vmnet"`
	MacAddress string `json:"macAddress"`
}

type nicList struct {
	Num  int      `json:"num"`
	NICs []nicDoc `json:"nics"`
}

func (l *nicList) validate() error {
	if l.Num != len(l.NICs) {
		return fmt.Errorf("num is %d but %d nics are listed", l.Num, len(l.NICs))
	}
	for _, n := range l.NICs {
		if err := required("type", n.Type); err != nil {
			return err
		}
	}
	return nil
}

type nicRequest struct {
	Type  NICType `json:"type"`
	VMnet string  `json:"vmnet,omitempty"`
}

func newNICRequest(typ NICType, vmnet string) nicRequest {
	req := nicRequest{Type: typ}
	if typ == NICCustom {
		req.VMnet = vmnet
	}
	return req
}

type folderDoc struct {
	FolderID string `json:"folder_id"`
	HostPath string `json:"host_path"`
	Flags    int    `json:"flags"`
}

type folderList []folderDoc

func (l folderList) validate() error {
	for _, f := range l {
		if err := required("folder_id", f.FolderID); err != nil {
			return err
		}
	}
	return nil
}

// errorDoc is the body of a failed request
type errorDoc struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}
