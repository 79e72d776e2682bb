package chapters

import (
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"bdindex/internal/timecode"
)

// Format selects a chapter file layout.
type Format string

const (
	FormatOGM      Format = "ogm"
	FormatMatroska Format = "matroska"
)

// ParseFormat accepts "ogm" or "matroska" in any case.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatOGM:
		return FormatOGM, nil
	case FormatMatroska:
		return FormatMatroska, nil
	default:
		return "", fmt.Errorf("unsupported chapter format %q (expected ogm or matroska)", value)
	}
}

// Ext is the conventional file extension for the format.
func (f Format) Ext() string {
	if f == FormatMatroska {
		return ".xml"
	}
	return ".txt"
}

// WriteOGM writes CHAPTERnn=HH:MM:SS.fff and CHAPTERnnNAME= line pairs.
func WriteOGM(w io.Writer, chapters []Chapter, rate timecode.Rate, precision int) error {
	if err := timecode.ValidatePrecision(precision); err != nil {
		return err
	}
	for i, ch := range chapters {
		ts, err := timecode.FrameToTimestamp(ch.Frame, rate, precision)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "CHAPTER%02d=%s\nCHAPTER%02dNAME=%s\n", i+1, ts, i+1, ch.Name); err != nil {
			return fmt.Errorf("write ogm chapter %d: %w", i+1, err)
		}
	}
	return nil
}

type mkvChapters struct {
	XMLName xml.Name      `xml:"Chapters"`
	Edition mkvEditionXML `xml:"EditionEntry"`
}

type mkvEditionXML struct {
	FlagHidden  int          `xml:"EditionFlagHidden"`
	FlagDefault int          `xml:"EditionFlagDefault"`
	UID         uint64       `xml:"EditionUID"`
	Atoms       []mkvAtomXML `xml:"ChapterAtom"`
}

type mkvAtomXML struct {
	UID         uint64        `xml:"ChapterUID"`
	TimeStart   string        `xml:"ChapterTimeStart"`
	FlagHidden  int           `xml:"ChapterFlagHidden"`
	FlagEnabled int           `xml:"ChapterFlagEnabled"`
	Display     mkvDisplayXML `xml:"ChapterDisplay"`
}

type mkvDisplayXML struct {
	String       string `xml:"ChapterString"`
	Language     string `xml:"ChapterLanguage"`
	LanguageIETF string `xml:"ChapLanguageIETF"`
}

// UIDFunc produces Matroska edition and chapter UIDs.
type UIDFunc func() uint64

// RandomUID derives a non-zero UID from a random UUID.
func RandomUID() uint64 {
	for {
		id := uuid.New()
		if uid := binary.BigEndian.Uint64(id[:8]); uid != 0 {
			return uid
		}
	}
}

// WriteMatroskaXML writes a single-edition Matroska chapter file. lang is a
// BCP 47 tag; the ISO 639-2 code derived from it fills ChapterLanguage.
func WriteMatroskaXML(w io.Writer, chapters []Chapter, rate timecode.Rate, lang string, uid UIDFunc) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("chapter language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	iso3 := base.ISO3()
	if uid == nil {
		uid = RandomUID
	}

	doc := mkvChapters{Edition: mkvEditionXML{UID: uid()}}
	for _, ch := range chapters {
		ts, err := timecode.FrameToTimestamp(ch.Frame, rate, 9)
		if err != nil {
			return err
		}
		doc.Edition.Atoms = append(doc.Edition.Atoms, mkvAtomXML{
			UID:         uid(),
			TimeStart:   ts,
			FlagEnabled: 1,
			Display: mkvDisplayXML{
				String:       ch.Name,
				Language:     iso3,
				LanguageIETF: tag.String(),
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header+`<!DOCTYPE Chapters SYSTEM "matroskachapters.dtd">`+"\n"); err != nil {
		return fmt.Errorf("write matroska header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode matroska chapters: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write matroska chapters: %w", err)
	}
	return nil
}

// FileOptions configures WriteFile.
type FileOptions struct {
	Precision int
	Language  string
	UID       UIDFunc
}

// WriteFile atomically replaces path with the chapters in format.
func WriteFile(path string, format Format, chapters []Chapter, rate timecode.Rate, opts FileOptions) (err error) {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithTempDir(filepath.Dir(path)))
	if err != nil {
		return fmt.Errorf("create pending chapter file: %w", err)
	}
	defer func() {
		if cleanupErr := pending.Cleanup(); cleanupErr != nil && err == nil {
			err = fmt.Errorf("cleanup pending chapter file: %w", cleanupErr)
		}
	}()

	switch format {
	case FormatOGM:
		err = WriteOGM(pending, chapters, rate, opts.Precision)
	case FormatMatroska:
		lang := opts.Language
		if strings.TrimSpace(lang) == "" {
			lang = "und"
		}
		err = WriteMatroskaXML(pending, chapters, rate, lang, opts.UID)
	default:
		err = fmt.Errorf("unsupported chapter format %q", format)
	}
	if err != nil {
		return err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
