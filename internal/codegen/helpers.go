package codegen

// longToNumberHelper narrows a 64-bit wire value to a native number,
// throwing ValueOutOfRange if doing so would lose precision (spec.md §4.G
// "64-bit integer narrowing", §7 error kind ValueOutOfRange). Emitted at
// most once per file, only when a field actually needs it.
const longToNumberHelper = `function longToNumber(long: Long): number {
    const n = long.toNumber();
    if (!Number.isSafeInteger(n)) {
        throw new Error("ValueOutOfRange: 64-bit value " + long.toString() + " exceeds safe integer range");
    }
    return n;
}`

// writeTimestampHelper / decodeTimestampHelper mirror longToNumberHelper's
// emit-once-per-file shape for google.protobuf.Timestamp, rendered as a
// native Date (spec.md's Supplemented Features: well-known types recognized
// structurally, the same mechanism as wrapper values, not a custom option).
const writeTimestampHelper = `function writeTimestamp(date: Date, writer: Writer): Writer {
    const millis = date.getTime();
    const seconds = Math.floor(millis / 1000);
    const nanos = (millis % 1000) * 1e6;
    writer.uint32(tag(1, WIRE.VARINT)).int64(seconds);
    writer.uint32(tag(2, WIRE.VARINT)).int32(nanos);
    return writer;
}`

const decodeTimestampHelper = `function decodeTimestampMessage(reader: Reader, length?: number): Date {
    const end = length === undefined ? reader.len : reader.pos + length;
    let seconds = 0;
    let nanos = 0;
    while (reader.pos < end) {
        const tagValue = reader.uint32();
        switch (tagValue >>> 3) {
            case 1:
                seconds = longToNumber(reader.int64() as Long);
                break;
            case 2:
                nanos = reader.int32();
                break;
            default:
                reader.skipType(tagValue & 7);
        }
    }
    return new Date(seconds * 1000 + Math.floor(nanos / 1e6));
}`

const writeDurationHelper = `function writeDuration(durationMillis: number, writer: Writer): Writer {
    const seconds = Math.floor(durationMillis / 1000);
    const nanos = (durationMillis % 1000) * 1e6;
    writer.uint32(tag(1, WIRE.VARINT)).int64(seconds);
    writer.uint32(tag(2, WIRE.VARINT)).int32(nanos);
    return writer;
}`

const decodeDurationHelper = `function decodeDurationMessage(reader: Reader, length?: number): number {
    const end = length === undefined ? reader.len : reader.pos + length;
    let seconds = 0;
    let nanos = 0;
    while (reader.pos < end) {
        const tagValue = reader.uint32();
        switch (tagValue >>> 3) {
            case 1:
                seconds = longToNumber(reader.int64() as Long);
                break;
            case 2:
                nanos = reader.int32();
                break;
            default:
                reader.skipType(tagValue & 7);
        }
    }
    return seconds * 1000 + Math.floor(nanos / 1e6);
}`

// tagHelper computes the wire tag for a field number and wire type,
// matching ir.Tag's arithmetic so generated code and the generator agree.
// Emitted unconditionally in every file: encode functions call tag();
// decode functions dispatch on the raw tag value and do not.
const tagHelper = `function tag(fieldNumber: number, wireType: number): number {
    return (fieldNumber << 3) | wireType;
}`

// wireConstHelper defines the wire-type numeric constants locally rather
// than importing them, so a generated file has no dependency beyond the
// Reader/Writer runtime surface itself (spec.md §6).
const wireConstHelper = `const WIRE = { VARINT: 0, FIXED64: 1, LDELIM: 2, FIXED32: 5 } as const;`
