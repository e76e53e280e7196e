package schema

import "fmt"

// coreDataEpochOffset is the number of seconds between the Core Data
// reference date (2001-01-01 00:00:00 UTC) and the Unix epoch. Stored
// timestamps are seconds since the reference date.
const coreDataEpochOffset = 978307200

// viewTemplate re-exposes the versioned physical tables under stable
// relation names. Only the junction table and its two columns are
// substituted; everything else in the application's schema is statically
// named. The block is a self-contained WITH prefix, so prepending it to a
// caller's query never changes the query's meaning.
const viewTemplate = `WITH
  entities AS (
    SELECT
      n.Z_PK as id,
      n.ZUNIQUEIDENTIFIER as unique_id,
      n.ZTITLE as title,
      n.ZTEXT as content,
      datetime(n.ZMODIFICATIONDATE + %[1]d, 'unixepoch') as modified,
      datetime(n.ZCREATIONDATE + %[1]d, 'unixepoch') as created,
      n.ZPINNED as is_pinned,
      n.ZTRASHED as is_trashed,
      n.ZARCHIVED as is_archived
    FROM ZSFNOTE as n
  ),
  labels AS (
    SELECT
      t.Z_PK as id,
      t.ZTITLE as name,
      datetime(t.ZMODIFICATIONDATE + %[1]d, 'unixepoch') as modified
    FROM ZSFNOTETAG as t
  ),
  entity_labels AS (
    SELECT
      j.%[2]s as entity_id,
      j.%[3]s as label_id
    FROM %[4]s as j
  ),
  entity_links AS (
    SELECT
      l.ZLINKEDBY as from_id,
      l.ZLINKINGTO as to_id
    FROM ZSFNOTEBACKLINK as l
  )
`

// ViewDefinitions builds the normalizing view block from discovered
// metadata. It is pure: the same metadata always yields byte-identical text.
func ViewDefinitions(md Metadata) string {
	return fmt.Sprintf(viewTemplate,
		coreDataEpochOffset,
		md.EntityColumn,
		md.LabelColumn,
		md.JunctionTable,
	)
}
