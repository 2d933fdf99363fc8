package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/naaccrconv/internal/model"
)

func ids(fields []model.FieldDescriptor) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.NaaccrID
	}
	return out
}

func TestResolveEmbeddedBase(t *testing.T) {
	fields, err := FileResolver{}.Resolve(Request{Version: "180", RecordType: "A"})
	require.NoError(t, err)
	got := ids(fields)

	assert.Contains(t, got, "patientIdNumber")
	assert.Contains(t, got, "derivedSummaryStage2018")
	assert.Contains(t, got, "textRemarks")

	for _, f := range fields {
		if f.NaaccrID == "registryId" {
			assert.Equal(t, model.ScopeRoot, f.Scope)
			assert.Equal(t, 40, f.Number)
		}
		if f.NaaccrID == "nameLast" {
			assert.Equal(t, model.ScopePatient, f.Scope)
		}
		if f.NaaccrID == "primarySite" {
			assert.Equal(t, model.ScopeTumor, f.Scope)
		}
	}
}

func TestResolveFiltersByVersionAndRecordType(t *testing.T) {
	fields, err := FileResolver{}.Resolve(Request{Version: "160", RecordType: "I"})
	require.NoError(t, err)
	got := ids(fields)

	assert.NotContains(t, got, "derivedSummaryStage2018", "introduced in 180")
	assert.Contains(t, got, "tumorSizeSummary")
	assert.NotContains(t, got, "nameLast", "confidential items are not in incidence records")
	assert.NotContains(t, got, "textRemarks")
}

func TestResolveAllowList(t *testing.T) {
	fields, err := FileResolver{}.Resolve(Request{
		Version:    "210",
		RecordType: "C",
		Fields:     ParseFieldList(" nameLast, primarySite ,,unknownItem"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"nameLast", "primarySite"}, ids(fields))
}

func TestResolveRejectsBadRequest(t *testing.T) {
	var re *model.ResolutionError

	_, err := FileResolver{}.Resolve(Request{Version: "999", RecordType: "A"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &re))

	_, err = FileResolver{}.Resolve(Request{Version: "180", RecordType: "X"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &re))

	_, err = FileResolver{}.Resolve(Request{Version: "180", RecordType: "A", DictionaryPath: "/nonexistent/dict.xml"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &re))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestResolveCatalogDir(t *testing.T) {
	dir := t.TempDir()
	content := "naaccrId,parentXmlElement\nregistryId,NaaccrData\npatientIdNumber,Patient\nprimarySite,Tumor\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "naaccr-220-fields.csv"), []byte(content), 0o644))

	fields, err := FileResolver{Dir: dir}.Resolve(Request{Version: "220", RecordType: "I"})
	require.NoError(t, err)
	assert.Equal(t, []string{"registryId", "patientIdNumber", "primarySite"}, ids(fields))

	_, err = FileResolver{Dir: dir}.Resolve(Request{Version: "180", RecordType: "I"})
	var re *model.ResolutionError
	require.ErrorAs(t, err, &re)
}

func TestResolveUnknownParentElement(t *testing.T) {
	dir := t.TempDir()
	content := "naaccrId,parentXmlElement\nsomething,Registry\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "naaccr-180-fields.csv"), []byte(content), 0o644))

	_, err := FileResolver{Dir: dir}.Resolve(Request{Version: "180", RecordType: "I"})
	var re *model.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), "Registry")
}

const xmlDict = `<?xml version="1.0" encoding="UTF-8"?>
<NaaccrDictionary dictionaryUri="http://example.org/my-dictionary.xml" naaccrVersion="180" specificationVersion="1.3" xmlns="http://naaccr.org/naaccrxml">
    <ItemDefs>
        <ItemDef naaccrId="myRegistryFlag" naaccrNum="10000" length="1" recordTypes="A,M,C,I" parentXmlElement="NaaccrData"/>
        <ItemDef naaccrId="myPatientLanguagePreferenceAtEnrollment" naaccrNum="10001" length="2" parentXmlElement="Patient"/>
        <ItemDef naaccrId="myTumorNote" naaccrNum="10002" length="100" recordTypes="A,M" parentXmlElement="Tumor"/>
    </ItemDefs>
</NaaccrDictionary>
`

func TestResolveXMLDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.xml")
	require.NoError(t, os.WriteFile(path, []byte(xmlDict), 0o644))

	fields, err := FileResolver{}.Resolve(Request{Version: "180", RecordType: "I", DictionaryPath: path})
	require.NoError(t, err)

	byID := make(map[string]model.FieldDescriptor)
	for _, f := range fields {
		byID[f.NaaccrID] = f
	}
	require.Contains(t, byID, "myRegistryFlag")
	assert.Equal(t, model.ScopeRoot, byID["myRegistryFlag"].Scope)
	assert.Equal(t, 10000, byID["myRegistryFlag"].Number)

	long := byID["myPatientLanguagePreferenceAtEnrollment"]
	assert.Equal(t, model.ScopePatient, long.Scope)
	assert.Equal(t, "myPatientLanguagePreferenceAtEnr", long.SourceKey)
	assert.Len(t, long.SourceKey, model.MaxSourceKeyLength)

	assert.NotContains(t, byID, "myTumorNote", "abstract-only item filtered for incidence")
}

func TestResolveCSVDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my-naaccr-180-dictionary.csv")
	content := "ID,Num,Name,Start Col,Length,Record Types,Parent XML Element,Data Type,Padding,Trimming\n" +
		"myTumorCode,10010,My Tumor Code,,3,\"A,M,C,I\",Tumor,text,rightBlank,all\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fields, err := FileResolver{}.Resolve(Request{
		Version:        "180",
		RecordType:     "A",
		DictionaryPath: path,
		Fields:         []string{"myTumorCode"},
	})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, model.FieldDescriptor{NaaccrID: "myTumorCode", SourceKey: "myTumorCode", Number: 10010, Scope: model.ScopeTumor}, fields[0])
}

func TestResolveCSVDictionaryExportHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.csv")
	content := "NAACCR XML ID,NAACCR Number,Name,Start Column,Length,Record Types,Parent XML Element,Data Type\n" +
		"myTumorStage,10020,My Tumor Stage,,2,\"A,M,C,I\",Tumor,text\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fields, err := FileResolver{}.Resolve(Request{
		Version:        "180",
		RecordType:     "I",
		DictionaryPath: path,
		Fields:         []string{"myTumorStage"},
	})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, model.FieldDescriptor{NaaccrID: "myTumorStage", SourceKey: "myTumorStage", Number: 10020, Scope: model.ScopeTumor}, fields[0])
}

func TestResolveCSVDictionaryMissingIDColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Parent XML Element\nx,Tumor\n"), 0o644))

	_, err := FileResolver{}.Resolve(Request{Version: "180", RecordType: "I", DictionaryPath: path})
	var re *model.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), `"NAACCR XML ID"`)
}

func TestPartitionFields(t *testing.T) {
	p := PartitionFields([]model.FieldDescriptor{
		{NaaccrID: "registryId", SourceKey: "registryId", Scope: model.ScopeRoot},
		{NaaccrID: "nameLast", SourceKey: "nameLast", Scope: model.ScopePatient},
		{NaaccrID: "primarySite", SourceKey: "primarySite", Scope: model.ScopeTumor},
		{NaaccrID: "laterality", SourceKey: "laterality", Scope: model.ScopeTumor},
		{NaaccrID: "primarySiteOverride", SourceKey: "primarySite", Scope: model.ScopeTumor},
	})

	assert.Equal(t, 1, p.Root.Len())
	assert.Equal(t, 1, p.Patient.Len())
	assert.Equal(t, 2, p.Tumor.Len())

	id, ok := p.Tumor.Get("primarySite")
	require.True(t, ok)
	assert.Equal(t, "primarySiteOverride", id, "later duplicate source key overwrites")

	var order []string
	p.Tumor.Each(func(k, _ string) { order = append(order, k) })
	assert.Equal(t, []string{"primarySite", "laterality"}, order)

	s, ok := p.Scope("nameLast")
	require.True(t, ok)
	assert.Equal(t, model.ScopePatient, s)
	_, ok = p.Scope("unmapped")
	assert.False(t, ok)
}

func TestPartitionEmpty(t *testing.T) {
	p := PartitionFields(nil)
	for _, s := range model.AllScopes {
		assert.Equal(t, 0, p.For(s).Len(), s.String())
	}
}
