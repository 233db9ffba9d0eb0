package parser

import (
	"strings"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

const MessageDuplicateConsultation = "Duplicate consultation detected: %s. Please remove duplicates and try again."

func (p *Parser) parseAdd(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixStudentID, PrefixEmail, PrefixModuleCode, PrefixTag, PrefixConsultation)
	if !m.HasAll(PrefixName, PrefixStudentID, PrefixEmail, PrefixModuleCode) || m.Preamble() != "" {
		return nil, invalidFormat(command.UsageAdd)
	}
	if err := m.VerifyNoDuplicatePrefixesFor(PrefixName, PrefixStudentID, PrefixEmail); err != nil {
		return nil, err
	}

	rawName, _ := m.Value(PrefixName)
	name, err := ParseName(rawName)
	if err != nil {
		return nil, err
	}
	rawID, _ := m.Value(PrefixStudentID)
	id, err := ParseStudentID(rawID)
	if err != nil {
		return nil, err
	}
	rawEmail, _ := m.Value(PrefixEmail)
	email, err := ParseEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	modules, err := ParseModuleCodes(m.AllValues(PrefixModuleCode))
	if err != nil {
		return nil, err
	}
	tags, err := ParseTags(m.AllValues(PrefixTag))
	if err != nil {
		return nil, err
	}
	consultations, err := p.parseConsultations(m.AllValues(PrefixConsultation))
	if err != nil {
		return nil, err
	}

	person, err := models.NewPerson(models.PersonFields{
		Name:          name,
		StudentID:     id,
		Email:         email,
		ModuleCodes:   modules,
		Tags:          tags,
		Consultations: consultations,
	})
	if err != nil {
		return nil, err
	}
	return command.Add{Person: person}, nil
}

// parseConsultations validates every slot and rejects repeats.
func (p *Parser) parseConsultations(raws []string) ([]models.Consultation, error) {
	now := p.now()
	slots := make([]models.Consultation, 0, len(raws))
	dups := make([]string, 0)
	for _, raw := range raws {
		slot, err := ParseConsultation(raw, now)
		if err != nil {
			return nil, err
		}
		for _, existing := range slots {
			if existing.Equal(slot) {
				dups = append(dups, slot.String())
				break
			}
		}
		slots = append(slots, slot)
	}
	if len(dups) > 0 {
		return nil, appErrors.Clonef(appErrors.ErrValidation, MessageDuplicateConsultation, strings.Join(dups, ", "))
	}
	return slots, nil
}

func (p *Parser) parseDelete(args string) (command.Command, error) {
	m := Tokenize(args, PrefixStudentID)
	target, err := parseTarget(m, command.UsageDelete, false)
	if err != nil {
		return nil, err
	}
	return command.Delete{Target: target}, nil
}

// listValues returns nil when prefix is absent and an empty slice when the
// only value given is blank, which clears the field on edit.
func listValues(m ArgumentMultimap, prefix Prefix) ([]string, bool) {
	if !m.Has(prefix) {
		return nil, false
	}
	values := m.AllValues(prefix)
	if len(values) == 1 && values[0] == "" {
		return []string{}, true
	}
	return values, true
}

func (p *Parser) parseEdit(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixEmail, PrefixAddress, PrefixStudentID,
		PrefixModuleCode, PrefixTag, PrefixConsultation, PrefixGrade, PrefixWeek, PrefixRemark)

	index, err := parseIndexPreamble(m, command.UsageEdit)
	if err != nil {
		return nil, err
	}
	if err := m.VerifyNoDuplicatePrefixesFor(PrefixName, PrefixPhone, PrefixEmail, PrefixAddress,
		PrefixStudentID, PrefixWeek, PrefixRemark); err != nil {
		return nil, err
	}

	var d command.EditDescriptor
	if raw, ok := m.Value(PrefixName); ok {
		v, err := ParseName(raw)
		if err != nil {
			return nil, err
		}
		d.Name = &v
	}
	if raw, ok := m.Value(PrefixPhone); ok {
		v, err := ParsePhone(raw)
		if err != nil {
			return nil, err
		}
		d.Phone = &v
	}
	if raw, ok := m.Value(PrefixEmail); ok {
		v, err := ParseEmail(raw)
		if err != nil {
			return nil, err
		}
		d.Email = &v
	}
	if raw, ok := m.Value(PrefixAddress); ok {
		v, err := ParseAddress(raw)
		if err != nil {
			return nil, err
		}
		d.Address = &v
	}
	if raw, ok := m.Value(PrefixStudentID); ok {
		v, err := ParseStudentID(raw)
		if err != nil {
			return nil, err
		}
		d.StudentID = &v
	}
	if raws, ok := listValues(m, PrefixModuleCode); ok {
		if d.ModuleCodes, err = ParseModuleCodes(raws); err != nil {
			return nil, err
		}
	}
	if raws, ok := listValues(m, PrefixTag); ok {
		if d.Tags, err = ParseTags(raws); err != nil {
			return nil, err
		}
	}
	if raws, ok := listValues(m, PrefixConsultation); ok {
		if d.Consultations, err = p.parseConsultations(raws); err != nil {
			return nil, err
		}
	}
	if m.Has(PrefixGrade) {
		if d.Grades, err = parseGradeEntries(m.AllValues(PrefixGrade)); err != nil {
			return nil, err
		}
	}
	if raw, ok := m.Value(PrefixWeek); ok {
		entry, err := parseWeekColonStatus(raw)
		if err != nil {
			return nil, err
		}
		d.Attendance = &entry
	}
	if raw, ok := m.Value(PrefixRemark); ok {
		v, err := ParseRemark(raw)
		if err != nil {
			return nil, err
		}
		d.Remark = &v
	}

	if !d.IsAnyFieldEdited() {
		return nil, appErrors.Clone(appErrors.ErrValidation, command.MessageNotEdited)
	}
	return command.Edit{Index: index, Descriptor: d}, nil
}

func (p *Parser) parseTag(args string) (command.Command, error) {
	target, tags, err := parseTagArgs(args, command.UsageTag)
	if err != nil {
		return nil, err
	}
	return command.Tag{Target: target, Tags: tags}, nil
}

func (p *Parser) parseUntag(args string) (command.Command, error) {
	target, tags, err := parseTagArgs(args, command.UsageUntag)
	if err != nil {
		return nil, err
	}
	return command.Untag{Target: target, Tags: tags}, nil
}

func parseTagArgs(args, usage string) (command.Target, []models.Tag, error) {
	m := Tokenize(args, PrefixStudentID, PrefixTag)
	target, err := parseTarget(m, usage, false)
	if err != nil {
		return command.Target{}, nil, err
	}
	if !m.Has(PrefixTag) {
		return command.Target{}, nil, appErrors.Clone(appErrors.ErrValidation, command.MessageNoTags)
	}
	tags, err := ParseTags(m.AllValues(PrefixTag))
	if err != nil {
		return command.Target{}, nil, err
	}
	return target, tags, nil
}

func (p *Parser) parseGrade(args string) (command.Command, error) {
	m := Tokenize(args, PrefixGrade)
	if !m.Has(PrefixGrade) {
		return nil, invalidFormat(command.UsageGrade)
	}
	index, err := parseIndexPreamble(m, command.UsageGrade)
	if err != nil {
		return nil, err
	}
	grades, err := parseGradeEntries(m.AllValues(PrefixGrade))
	if err != nil {
		return nil, err
	}
	return command.Grade{Index: index, Grades: grades}, nil
}

func (p *Parser) parseDeleteGrade(args string) (command.Command, error) {
	m := Tokenize(args, PrefixGrade)
	if !m.Has(PrefixGrade) {
		return nil, invalidFormat(command.UsageDeleteGrade)
	}
	index, err := parseIndexPreamble(m, command.UsageDeleteGrade)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0)
	for _, raw := range m.AllValues(PrefixGrade) {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, models.MessageAssignmentNameConstraints)
		}
		names = append(names, name)
	}
	return command.DeleteGrade{Index: index, Names: names}, nil
}

func (p *Parser) parseAttendance(args string) (command.Command, error) {
	m := Tokenize(args, PrefixStudentID, PrefixWeek)
	if !m.Has(PrefixWeek) {
		return nil, invalidFormat(command.UsageAttendance)
	}
	target, err := parseTarget(m, command.UsageAttendance, true)
	if err != nil {
		return nil, err
	}
	if err := m.VerifyNoDuplicatePrefixesFor(PrefixWeek); err != nil {
		return nil, err
	}
	raw, _ := m.Value(PrefixWeek)
	entry, err := parseWeekStatus(raw)
	if err != nil {
		return nil, err
	}
	return command.Attendance{Target: target, Entry: entry}, nil
}

func (p *Parser) parseRemark(args string) (command.Command, error) {
	m := Tokenize(args, PrefixStudentID, PrefixRemark)
	if m.Preamble() != "" && m.Has(PrefixStudentID) {
		return nil, appErrors.Clone(appErrors.ErrConflictParams, command.MessageConflictingParam)
	}
	if !m.HasAll(PrefixStudentID, PrefixRemark) || m.Preamble() != "" {
		return nil, invalidFormat(command.UsageRemark)
	}
	if err := m.VerifyNoDuplicatePrefixesFor(PrefixStudentID, PrefixRemark); err != nil {
		return nil, err
	}
	rawID, _ := m.Value(PrefixStudentID)
	id, err := ParseStudentID(rawID)
	if err != nil {
		return nil, err
	}
	rawRemark, _ := m.Value(PrefixRemark)
	remark, err := ParseRemark(rawRemark)
	if err != nil {
		return nil, err
	}
	return command.Remark{StudentID: id, Remark: remark}, nil
}

func (p *Parser) parseView(args string) (command.Command, error) {
	m := Tokenize(args, PrefixStudentID)
	target, err := parseTarget(m, command.UsageView, false)
	if err != nil {
		return nil, err
	}
	return command.View{Target: target}, nil
}

func (p *Parser) parseList(args string) (command.Command, error) {
	m := Tokenize(args, PrefixModuleCode)
	if m.Preamble() != "" {
		return nil, invalidFormat(command.UsageList)
	}
	if err := m.VerifyNoDuplicatePrefixesFor(PrefixModuleCode); err != nil {
		return nil, err
	}
	raw, ok := m.Value(PrefixModuleCode)
	if !ok {
		return command.List{}, nil
	}
	code, err := ParseModuleCode(raw)
	if err != nil {
		return nil, err
	}
	return command.List{Module: code}, nil
}

func (p *Parser) parseFilter(args string) (command.Command, error) {
	m := Tokenize(args, PrefixTag)
	if !m.Has(PrefixTag) || m.Preamble() != "" {
		return nil, invalidFormat(command.UsageFilter)
	}
	tags, err := ParseTags(m.AllValues(PrefixTag))
	if err != nil {
		return nil, err
	}
	return command.Filter{Tags: tags}, nil
}

func (p *Parser) parseClear(args string) (command.Command, error) {
	if strings.TrimSpace(args) != "" {
		return nil, invalidFormat(command.UsageClear)
	}
	return command.Clear{}, nil
}

