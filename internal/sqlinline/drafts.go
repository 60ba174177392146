package sqlinline

const QUpsertDraft = `--sql 3f6b1a9e-52c4-4d18-9b0a-7e2d84c1f5a6
insert into diagnosis_drafts (device_id, description, image_key, updated_at)
values ($1::text, $2::text, $3::text, now())
on conflict (device_id) do update set
    description = excluded.description,
    image_key = excluded.image_key,
    updated_at = now();
`

const QSelectDraftByDevice = `--sql b8d24e07-1c6f-4a93-8e5b-0f9a3d72c481
select device_id, description, image_key, updated_at
from diagnosis_drafts
where device_id = $1::text
limit 1;
`

const QDeleteDraft = `--sql 5c91f3ab-6e08-47d2-a14c-d3b7e096f824
delete from diagnosis_drafts
where device_id = $1::text;
`
