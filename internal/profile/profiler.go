package profile

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sphinxmi/nvmemi/internal/mctp"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
	"github.com/sphinxmi/nvmemi/internal/nvmemi/decoders"
	"github.com/sphinxmi/nvmemi/internal/session"
)

// Data structure types the profiler reads, per spec.md §4.8/§6.
const (
	dsTypeSubsystemInfo  uint8 = 0x00
	dsTypePortInfo       uint8 = 0x01
	dsTypeControllerList uint8 = 0x02
)

// Configuration identifiers the profiler reads.
const (
	configSMBusFreq  uint8 = 0x01
	configHealthPoll uint8 = 0x02
)

const (
	vpdChunkSize = 32
	// vpdMaxOffset bounds the sweep against a device that never reports
	// end-of-data (a zero-length response); 64 KiB of VPD is already far
	// past any real EEPROM this protocol targets.
	vpdMaxOffset = 64 * 1024
)

// Config tunes a profiler run: which optional phases to skip and how to
// pace requests, the knobs the CLI's --skip-vpd/--skip-admin/--delay flags
// set.
type Config struct {
	SkipVPD   bool
	SkipAdmin bool
	// Delay is paced between commands (not between fragments of one
	// command — that's transport.Config.InterFragmentDelay).
	Delay time.Duration
}

// Profiler drives session.Session through the curated, read-only sweep
// spec.md §4.8 describes: health, controller health per discovered id, a
// handful of data structures, standard configuration identifiers, a
// chunked VPD read, and (unless skipped) admin-tunneled Identify Controller
// and the SMART log. Every opcode it issues is on this closed list — there
// is no path from Profiler to a write or destructive command.
type Profiler struct {
	sess *session.Session
	cfg  Config
	log  *logrus.Entry
}

// New creates a Profiler over an already-connected Session.
func New(sess *session.Session, cfg Config) *Profiler {
	return &Profiler{sess: sess, cfg: cfg, log: logrus.WithField("component", "profiler")}
}

// Run executes the full sweep and returns the resulting capture. metadata's
// TotalCommands, AvgLatencyMs, and CaptureDate are overwritten with the
// measured values; its device-identity fields (Serial, Model, Firmware,
// NVMeMIMajor/Minor) are left as the caller supplied them — the profiler
// doesn't itself decide what device it's talking to, the caller does, from
// an earlier Identify/subsystem-info read or from its own inventory.
func (p *Profiler) Run(profileName string, metadata Metadata) (*DeviceProfile, error) {
	responseTable := make(map[string]string)
	var health, ds, cfgCmds, vpd []CapturedCommand
	var totalLatency time.Duration
	count := 0

	record := func(list *[]CapturedCommand, opcode uint8, params map[string]string, reqPayload []byte, resp *nvmemi.DecodedResponse, latency time.Duration) {
		respBytes := append([]byte{resp.StatusCode}, resp.RawBytes...)
		cc := CapturedCommand{
			Opcode:      opcode,
			Params:      params,
			RequestHex:  hex.EncodeToString(reqPayload),
			ResponseHex: hex.EncodeToString(respBytes),
			LatencyMs:   latency.Seconds() * 1000,
			Timestamp:   timestamp(time.Now()),
		}
		*list = append(*list, cc)
		responseTable[fingerprintOf(opcode, params)] = cc.ResponseHex
		totalLatency += latency
		count++
		if p.cfg.Delay > 0 {
			time.Sleep(p.cfg.Delay)
		}
	}

	reqPayload := nvmemi.MIRequest(nvmemi.MIOpcodeHealthStatusPoll, nil)
	resp, lat, err := p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, nvmemi.MIOpcodeHealthStatusPoll)
	if err != nil {
		return nil, err
	}
	record(&health, nvmemi.MIOpcodeHealthStatusPoll, nil, reqPayload, resp, lat)

	reqPayload = nvmemi.MIRequest(nvmemi.MIOpcodeReadDataStructure, []byte{dsTypeControllerList})
	resp, lat, err = p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, nvmemi.MIOpcodeReadDataStructure)
	if err != nil {
		return nil, err
	}
	record(&ds, nvmemi.MIOpcodeReadDataStructure, map[string]string{"ds_type": "2"}, reqPayload, resp, lat)
	controllerIDs := extractControllerIDs(resp)

	for _, cid := range controllerIDs {
		req := make([]byte, 2)
		binary.LittleEndian.PutUint16(req, cid)
		reqPayload = nvmemi.MIRequest(nvmemi.MIOpcodeControllerHealth, req)
		resp, lat, err = p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, nvmemi.MIOpcodeControllerHealth)
		if err != nil {
			return nil, err
		}
		record(&health, nvmemi.MIOpcodeControllerHealth, map[string]string{"controller_id": fmt.Sprintf("%d", cid)}, reqPayload, resp, lat)
	}

	for _, dsType := range []uint8{dsTypeSubsystemInfo, dsTypePortInfo} {
		reqPayload = nvmemi.MIRequest(nvmemi.MIOpcodeReadDataStructure, []byte{dsType})
		resp, lat, err = p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, nvmemi.MIOpcodeReadDataStructure)
		if err != nil {
			return nil, err
		}
		record(&ds, nvmemi.MIOpcodeReadDataStructure, map[string]string{"ds_type": fmt.Sprintf("%d", dsType)}, reqPayload, resp, lat)
	}

	for _, id := range []uint8{configSMBusFreq, configHealthPoll} {
		reqPayload = nvmemi.MIRequest(nvmemi.MIOpcodeConfigurationGet, []byte{id})
		resp, lat, err = p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, nvmemi.MIOpcodeConfigurationGet)
		if err != nil {
			return nil, err
		}
		record(&cfgCmds, nvmemi.MIOpcodeConfigurationGet, map[string]string{"config_id": fmt.Sprintf("%d", id)}, reqPayload, resp, lat)
	}

	if !p.cfg.SkipVPD {
		offset := uint16(0)
		for {
			req := make([]byte, 2)
			binary.LittleEndian.PutUint16(req, offset)
			reqPayload = nvmemi.MIRequest(nvmemi.MIOpcodeVPDRead, req)
			resp, lat, err = p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, nvmemi.MIOpcodeVPDRead)
			if err != nil {
				return nil, err
			}
			record(&vpd, nvmemi.MIOpcodeVPDRead, map[string]string{"offset": fmt.Sprintf("%d", offset)}, reqPayload, resp, lat)
			if len(resp.RawBytes) == 0 || int(offset)+vpdChunkSize >= vpdMaxOffset {
				break
			}
			offset += vpdChunkSize
		}
	}

	if !p.cfg.SkipAdmin {
		reqPayload = nvmemi.IdentifyController(0)
		key := nvmemi.DispatchKey(nvmemi.NMIMTAdminCommand, nvmemi.AdminOpcodeIdentify)
		resp, lat, err = p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, key)
		if err != nil {
			return nil, err
		}
		record(&ds, nvmemi.AdminOpcodeIdentify, map[string]string{"cns": "1"}, reqPayload, resp, lat)

		numDwords := uint32(decoders.SMARTLogLen/4 - 1)
		reqPayload = nvmemi.GetLogPage(0x02, numDwords, 0, 0xFFFFFFFF, false)
		resp, lat, err = p.sess.ExecuteTimed(mctp.MsgTypeNVMeMI, reqPayload, false, decoders.LogPageKeySMART)
		if err != nil {
			return nil, err
		}
		record(&ds, nvmemi.AdminOpcodeGetLogPage, map[string]string{"lid": "2"}, reqPayload, resp, lat)
	}

	metadata.TotalCommands = count
	if count > 0 {
		metadata.AvgLatencyMs = totalLatency.Seconds() * 1000 / float64(count)
	}
	metadata.CaptureDate = timestamp(time.Now())

	p.log.WithFields(logrus.Fields{"commands": count, "avg_latency_ms": metadata.AvgLatencyMs}).Info("sweep complete")

	return &DeviceProfile{
		ProfileName:            profileName,
		ProfileVersion:         SchemaVersion,
		CaptureID:              uuid.New().String(),
		Metadata:               metadata,
		HealthCommands:         health,
		DataStructureCommands:  ds,
		ConfigurationCommands:  cfgCmds,
		VPDCommands:            vpd,
		ResponseTable:          responseTable,
	}, nil
}

// extractControllerIDs reads the controller_id[N] fields a controller-list
// Read Data Structure response decodes to.
func extractControllerIDs(resp *nvmemi.DecodedResponse) []uint16 {
	var ids []uint16
	for _, f := range resp.Fields.List() {
		if !strings.HasPrefix(f.Name, "controller_id[") {
			continue
		}
		n, err := strconv.ParseUint(f.Value, 10, 16)
		if err != nil {
			continue
		}
		ids = append(ids, uint16(n))
	}
	return ids
}
