package mysql

const upsertPropertySQL = `
INSERT INTO properties
  (id, name, description, address, city, country, zip_code, contact_email, contact_phone, facilities, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name          = VALUES(name),
  description   = VALUES(description),
  address       = VALUES(address),
  city          = VALUES(city),
  country       = VALUES(country),
  zip_code      = VALUES(zip_code),
  contact_email = VALUES(contact_email),
  contact_phone = VALUES(contact_phone),
  facilities    = VALUES(facilities),
  images        = VALUES(images),
  updated_at    = CURRENT_TIMESTAMP
`

const upsertRoomSQL = `
INSERT INTO rooms
  (id, property_id, name, description, max_occupancy, base_price, currency, amenities, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name          = VALUES(name),
  description   = VALUES(description),
  max_occupancy = VALUES(max_occupancy),
  base_price    = VALUES(base_price),
  currency      = VALUES(currency),
  amenities     = VALUES(amenities),
  images        = VALUES(images),
  updated_at    = CURRENT_TIMESTAMP
`

// Availability is unique on (room_id, date); the syncer re-runs daily, so
// rate refreshes land as updates instead of duplicate rows.
const insertAvailabilityPrefix = "INSERT INTO availabilities\n  (room_id, `date`, available, price)\nVALUES "

const insertAvailabilityOnDup = ` ON DUPLICATE KEY UPDATE
  available  = VALUES(available),
  price      = VALUES(price),
  updated_at = CURRENT_TIMESTAMP
`

const deletePropertySQL = `DELETE FROM properties WHERE id = ?`

const getPropertySQL = `
SELECT
  id, name, description, address, city, country, zip_code,
  contact_email, contact_phone, facilities, images, created_at, updated_at
FROM properties
WHERE id = ?
`

const listRoomsSQL = `
SELECT
  id, property_id, name, description, max_occupancy, base_price, currency,
  amenities, images, created_at, updated_at
FROM rooms
WHERE property_id = ?
ORDER BY id
`

const listPropertyIDsSQL = `SELECT id FROM properties ORDER BY id`

const insertReservationSQL = `
INSERT INTO reservations
  (id, property_id, room_id, guest_name, guest_email, check_in, check_out,
   adults, children, total_price, currency, status, notes)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getReservationSQL = `
SELECT
  id, property_id, room_id, guest_name, guest_email, check_in, check_out,
  adults, children, total_price, currency, status, notes, created_at, updated_at
FROM reservations
WHERE id = ?
`

const insertAPILogSQL = `
INSERT INTO api_logs
  (request_method, request_path, request_headers, request_body,
   response_status, response_body, source, error, duration_ms)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateAPILogResponseSQL = `
UPDATE api_logs SET response_status = ?, response_body = ? WHERE id = ?
`
